/*
Package parley is a session-scoped graph orchestrator for conversational
pipelines. It routes a single user utterance through a directed workflow of
decision and worker services, accumulating context across round trips until
a final natural-language answer is produced.

# Concept

A workflow is a read-only graph of nodes, each bound to a logical service.
Decision nodes run in-process: they classify the conversation, extract
slots, and resolve the accumulated slot set into a clarifying question, a
forwarding sub-query, or a final answer. Worker nodes are remote services
reached over a small create/learn/infer RPC contract; their replies carry a
short provenance tag so the orchestrator can tell them apart from user
input.

Per-user session state (cursor, conversation log, decision context) lives
behind a pluggable store, with per-user locking so concurrent turns for the
same user are serialized while other users proceed independently.

# Usage

	cfg, err := config.Load("parley.yaml")
	if err != nil {
		log.Fatal(err)
	}

	orch, err := parley.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	answer, err := orch.Handle(ctx, "user-1", "turn on lane keeping")

The Orchestrator also implements the rpc.Service front door, so it can be
served directly with rpc.NewHandler.
*/
package parley
