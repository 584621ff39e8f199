package main

import (
	"fmt"

	"github.com/benchwrap/benchwrap/internal/benchmark"
	"github.com/benchwrap/benchwrap/internal/collector"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered benchmark tools and collectors",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Benchmark tools:")
		for _, name := range benchmark.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("Collectors:")
		for _, name := range collector.Names() {
			fmt.Printf("  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
