/*
Package ports defines the driven ports (interfaces) of the model store.

These interfaces decouple the in-memory model from external implementations,
allowing a model to be saved to and restored from various storage backends.

# Key Interfaces

  - ModelRepository: Persists named model documents (memory, file, Redis, SQLite).
  - DistributedLocker: Serializes concurrent writers of the same model.

Adapters verify themselves against RunModelRepositoryContract and
RunLockerContract.
*/
package ports
