package dsl

import (
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	name  string
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a builder for a named workflow graph.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Node declares a node bound to a service, or returns the existing
// declaration. The first declared node is the graph's entry point.
func (b *Builder) Node(service string) *NodeBuilder {
	if nb, ok := b.nodes[service]; ok {
		return nb
	}
	nb := &NodeBuilder{
		id:      len(b.order),
		service: service,
		builder: b,
	}
	b.order = append(b.order, service)
	b.nodes[service] = nb
	return nb
}

// Build compiles the declarations into a validated graph template.
func (b *Builder) Build() (*domain.Graph, error) {
	nodes := make([]domain.Node, 0, len(b.order))
	for _, service := range b.order {
		nb := b.nodes[service]

		successors := make([]int, 0, len(nb.successors))
		for _, succ := range nb.successors {
			target, ok := b.nodes[succ]
			if !ok {
				return nil, fmt.Errorf("node %q routes to undeclared service %q", service, succ)
			}
			successors = append(successors, target.id)
		}

		nodes = append(nodes, domain.Node{
			ID:          nb.id,
			ServiceName: service,
			Successors:  successors,
		})
	}
	return domain.NewGraph(b.name, nodes)
}
