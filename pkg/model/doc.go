// Package model holds the editable SysML model: elements, the relationships
// between them and a linear undo/redo history.
//
// A Store is constructed explicitly and passed to its collaborators. All
// mutation goes through its methods, which run to completion under the
// store's lock. Elements handed in or out are copies, so callers cannot
// change the model behind the history's back.
//
// Every mutating call records a snapshot of the model before it changes
// anything. Undo and Redo move between snapshots; a new mutation after an
// undo discards the redo branch.
package model
