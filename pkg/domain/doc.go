/*
Package domain contains the core domain models for the Parley orchestrator.

It defines the fundamental entities of the dialogue pipeline, such as Services,
workflow Graphs and Nodes, and the per-user session State. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Service: A collaborator in the pipeline, identified by name and provenance tag.
  - Node / Graph: A read-only workflow template walked by sessions.
  - State: The runtime snapshot of a session (cursor, conversation log, decision context).
  - DecisionState: The transient per-exchange classification and slot context.
*/
package domain
