package dsl

// NodeBuilder provides a fluent API for wiring a node's successors.
type NodeBuilder struct {
	id         int
	service    string
	successors []string
	builder    *Builder
}

// To routes this node to the named services. Routing to the node's own
// service declares the self loop used by clarifying questions.
func (n *NodeBuilder) To(services ...string) *NodeBuilder {
	n.successors = append(n.successors, services...)
	return n
}

// Node declares or fetches another node on the same builder, so chains can
// keep flowing without a builder reference.
func (n *NodeBuilder) Node(service string) *NodeBuilder {
	return n.builder.Node(service)
}
