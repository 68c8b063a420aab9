package domain

import "fmt"

// GraphSet holds the workflow templates loaded at startup: graphs by name,
// plus the default graph for each input modality.
type GraphSet struct {
	byName   map[string]*Graph
	defaults map[Modality]string
}

// NewGraphSet builds a graph set. Every default must name a known graph.
func NewGraphSet(graphs []*Graph, defaults map[Modality]string) (*GraphSet, error) {
	byName := make(map[string]*Graph, len(graphs))
	for _, g := range graphs {
		if _, exists := byName[g.Name]; exists {
			return nil, fmt.Errorf("duplicate graph %q", g.Name)
		}
		byName[g.Name] = g
	}
	for mod, name := range defaults {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("modality %q defaults to unknown graph %q", mod, name)
		}
	}
	return &GraphSet{byName: byName, defaults: defaults}, nil
}

// Graph returns the template with the given name.
func (gs *GraphSet) Graph(name string) (*Graph, error) {
	g, ok := gs.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown graph %q", ErrNoRoute, name)
	}
	return g, nil
}

// Default returns the default template for a modality.
func (gs *GraphSet) Default(modality Modality) (*Graph, error) {
	name, ok := gs.defaults[modality]
	if !ok {
		return nil, fmt.Errorf("%w: no workflow for modality %q", ErrNoRoute, modality)
	}
	return gs.byName[name], nil
}

// Names lists the graph names.
func (gs *GraphSet) Names() []string {
	names := make([]string, 0, len(gs.byName))
	for name := range gs.byName {
		names = append(names, name)
	}
	return names
}
