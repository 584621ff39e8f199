package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "benchwrap",
	Short: "benchwrap - benchmark orchestration wrapper",
	Long: `benchwrap runs external performance-measurement tools, parses their
output into structured result documents and exports those documents to a
configurable backend. Tools and collectors are plugins discovered by name.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
