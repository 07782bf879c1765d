package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treescout/treescout/internal/ignore"
	"github.com/treescout/treescout/internal/output"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Show whether paths are hidden by ignore rules",
		Long: `Resolve the ignore chain for each path's directory and report the
verdict. Paths outside any repository are always visible. Exits nonzero
when every given path is hidden.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := ignore.NewResolver()
			out := output.New(cmd.OutOrStdout())
			errOut := output.New(cmd.ErrOrStderr())

			anyVisible := false
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					errOut.Errorf("check %s: %v", arg, err)
					continue
				}
				isDir := false
				if info, err := os.Lstat(abs); err == nil {
					isDir = info.IsDir()
				}

				chain := resolver.RootChain(filepath.Dir(abs))
				if resolver.Accepts(chain, abs, filepath.Base(abs), isDir) {
					anyVisible = true
					out.Printf("visible  %s\n", arg)
				} else {
					out.Printf("hidden   %s\n", arg)
				}
			}
			if !anyVisible {
				cmd.SilenceErrors = true
				return fmt.Errorf("every given path is hidden")
			}
			return nil
		},
	}
	return cmd
}
