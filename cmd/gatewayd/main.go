package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gatewayd",
	Short: "Run the local inference gateway",
	Long:  "gatewayd routes chat completion requests to the quantized, framework, accelerator, and native-tensor backend drivers.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newProbeCommand())
}
