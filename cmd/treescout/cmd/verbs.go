package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treescout/treescout/internal/output"
	"github.com/treescout/treescout/internal/verb"
)

// loadRegistry builds the verb registry from builtins plus the layered
// configuration in effect for the current directory.
func loadRegistry() (*verb.Registry, error) {
	registry := verb.NewRegistry()
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cwd)
	if err != nil {
		return nil, err
	}
	if err := registry.AddConfigured(cfg.Verbs); err != nil {
		return nil, err
	}
	return registry, nil
}

func newVerbsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verbs",
		Short: "List available verbs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			for _, v := range registry.All() {
				desc := v.Description
				if desc == "" {
					desc = v.Execution
				}
				out.Printf("%-20s %s\n", strings.Join(v.Names, " "), desc)
			}
			return nil
		},
	}
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <verb> <path>",
		Short: "Run a verb on a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry()
			if err != nil {
				return err
			}
			v, err := registry.Find(args[0])
			if err != nil {
				return err
			}

			sel := verb.Selection{Path: args[1]}
			if info, err := os.Lstat(args[1]); err == nil {
				sel.IsDir = info.IsDir()
			}
			return registry.Exec(cmd.Context(), v, sel, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
