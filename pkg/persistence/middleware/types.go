// Package middleware wraps session stores with cross-cutting persistence
// behavior, such as encryption at rest for conversation logs.
package middleware

import "github.com/aretw0/parley/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore
