package domain

import "errors"

// ErrSessionNotFound is returned when a user ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyQuery is returned when an inbound payload has no usable content.
var ErrEmptyQuery = errors.New("empty query")

// ErrNoRoute is returned when a target node or service cannot be resolved
// from the workflow graph. It indicates a configuration defect.
var ErrNoRoute = errors.New("no route to service")

// ErrDownstreamTimeout is returned when a collaborator hop did not respond
// within its deadline.
var ErrDownstreamTimeout = errors.New("downstream service timed out")
