package main

import (
	"fmt"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/localmodel/gateway/pkg/inference/core"
)

func newProbeCommand() *cobra.Command {
	var name string
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "probe <model-path>",
		Short: "Print which backend the selector would choose for a model path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basePath := args[0]
			if rawArgs != "" {
				extra, err := shellwords.Parse(rawArgs)
				if err != nil {
					return fmt.Errorf("parse --raw-args: %w", err)
				}
				cmd.Printf("extra runtime args: %v\n", extra)
			}

			spec := core.ModelSpec{Name: name, BasePath: basePath}
			choice := core.Select(spec)
			cmd.Printf("%s -> %s\n", basePath, choice)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "model name, used by name-based selector heuristics")
	cmd.Flags().StringVar(&rawArgs, "raw-args", "", "extra shell-quoted runtime arguments to echo back, for debugging a launch command")
	return cmd
}
