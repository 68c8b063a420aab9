// Package graph renders workflow templates for inspection.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart (graph TD) for a workflow
// template. The entry node is drawn as a circle, other nodes as rectangles
// labeled with their bound service.
func GenerateMermaid(g *domain.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodes := g.Nodes()
	for i, node := range nodes {
		opener, closer := "[", "]"
		if i == 0 {
			opener, closer = "((", "))" // entry node
		}
		sb.WriteString(fmt.Sprintf("    n%d%s\"%d: %s\"%s\n", node.ID, opener, node.ID, node.ServiceName, closer))

		for _, succ := range node.Successors {
			sb.WriteString(fmt.Sprintf("    n%d --> n%d\n", node.ID, succ))
		}
	}
	return sb.String()
}
