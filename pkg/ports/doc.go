/*
Package ports defines the driven ports (interfaces) for the Parley orchestrator.

These interfaces decouple the core logic from external implementations, allowing
the dispatcher to work with various storage backends, decision strategies, and
service transports.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading session State.
  - Decision: The pluggable per-domain classify/extract/resolve strategy.
  - ServiceClient: The infer/create/learn RPC contract of a collaborator service.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
