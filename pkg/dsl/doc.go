// Package dsl provides a fluent builder for constructing workflow graphs in
// code, as an alternative to YAML configuration. Nodes are declared by
// service name and wired by name; IDs are assigned in declaration order.
package dsl
