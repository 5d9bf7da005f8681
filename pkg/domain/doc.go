/*
Package domain contains the metamodel kernel of the modeling tool.

It defines the closed set of element variants (definitions, usages, actions
and the KerML kernel elements), the relationships linking them, multiplicity
ranges and the JSON interchange codec. The package is pure: it performs no I/O
and holds no global mutable state, following Hexagonal Architecture principles.

# Element lattice

Variants share attribute records by embedding rather than by inheritance:

  - Base: identity, naming, ownership and opaque layout payload.
  - Type: Base plus abstractness and owned features.
  - Classifier: Type plus specializations. Definitions are classifiers.
  - Feature: Type plus multiplicity, typing and redefinition. Usages are features.

Every concrete variant reports its tag through Kind, which is also the "__type"
discriminator of its JSON form. Cross references are always ids.
*/
package domain
