package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/presentation/graph"
	"github.com/aretw0/parley/pkg/config"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Loads the configuration and outputs a Mermaid diagram (graph TD) for each workflow.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		graphs, err := cfg.GraphSet()
		if err != nil {
			fmt.Printf("Error building graphs: %v\n", err)
			os.Exit(1)
		}

		for _, name := range graphs.Names() {
			g, err := graphs.Graph(name)
			if err != nil {
				fmt.Printf("Error inspecting graph %s: %v\n", name, err)
				os.Exit(1)
			}
			fmt.Printf("%%%% %s\n", name)
			fmt.Print(graph.GenerateMermaid(g))
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
