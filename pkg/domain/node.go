package domain

import "fmt"

// Node is a vertex of a workflow graph, binding a service name to the set
// of node indices reachable from it.
type Node struct {
	ID          int    `json:"id" yaml:"id"`
	ServiceName string `json:"service" yaml:"service"`
	Successors  []int  `json:"successors" yaml:"successors"`
}

// Graph is an ordered collection of nodes describing one workflow variant
// for one input modality. A Graph is a read-only template: many sessions
// reference the same instance and only their cursor into it moves.
type Graph struct {
	Name  string
	nodes []Node
}

// NewGraph validates and builds a graph template.
// Node IDs must be unique and successors must reference IDs within the graph.
func NewGraph(name string, nodes []Node) (*Graph, error) {
	seen := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("graph %q: duplicate node id %d", name, n.ID)
		}
		seen[n.ID] = true
	}
	for _, n := range nodes {
		for _, s := range n.Successors {
			if !seen[s] {
				return nil, fmt.Errorf("graph %q: node %d references unknown successor %d", name, n.ID, s)
			}
		}
	}
	return &Graph{Name: name, nodes: nodes}, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int) (Node, error) {
	for _, n := range g.nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return Node{}, fmt.Errorf("%w: node %d not in graph %q", ErrNoRoute, id, g.Name)
}

// Nodes returns a copy of the node list, for inspection.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NextNode returns the ID of the unique successor of fromID bound to the
// given service name. A missing successor is a workflow misconfiguration
// and yields ErrNoRoute.
func (g *Graph) NextNode(fromID int, serviceName string) (int, error) {
	from, err := g.Node(fromID)
	if err != nil {
		return 0, err
	}
	for _, s := range from.Successors {
		succ, err := g.Node(s)
		if err != nil {
			return 0, err
		}
		if succ.ServiceName == serviceName {
			return succ.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: no successor of node %d for service %q in graph %q",
		ErrNoRoute, fromID, serviceName, g.Name)
}
