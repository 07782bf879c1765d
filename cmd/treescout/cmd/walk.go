package cmd

import (
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/treescout/treescout/internal/ignore"
	"github.com/treescout/treescout/internal/output"
	"github.com/treescout/treescout/internal/permview"
	"github.com/treescout/treescout/internal/walker"
)

// walkOverrides are flag values that take precedence over configuration.
// Nil pointers mean the flag was not given.
type walkOverrides struct {
	all       *bool
	noIgnore  *bool
	flat      bool
	showOwner *bool
	noColor   bool
	depth     *int
	workers   *int
}

func newWalkCmd() *cobra.Command {
	var (
		all       bool
		noIgnore  bool
		flat      bool
		showOwner bool
		noColor   bool
		depth     int
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "walk [dir]",
		Short: "Print the visible tree under a directory",
		Long: `Walk a directory tree and print every entry that survives
hierarchical ignore resolution. Rule files deeper in the tree override
shallower ones; crossing into a nested repository resets inheritance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			ov := walkOverrides{flat: flat, noColor: noColor}
			if cmd.Flags().Changed("all") {
				ov.all = &all
			}
			if cmd.Flags().Changed("no-ignore") {
				ov.noIgnore = &noIgnore
			}
			if cmd.Flags().Changed("show-owner") {
				ov.showOwner = &showOwner
			}
			if cmd.Flags().Changed("depth") {
				ov.depth = &depth
			}
			if cmd.Flags().Changed("workers") {
				ov.workers = &workers
			}
			return walkAndRender(cmd, dir, ov)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden (dot) entries")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Disable ignore-rule resolution")
	cmd.Flags().BoolVar(&flat, "flat", false, "Print relative paths instead of a tree")
	cmd.Flags().BoolVar(&showOwner, "show-owner", false, "Annotate entries with user:group")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Limit descent depth (0 = unlimited)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent directory readers")

	return cmd
}

// walkAndRender runs a walk with layered configuration and prints the result.
func walkAndRender(cmd *cobra.Command, dir string, ov walkOverrides) error {
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}

	opts := walker.Options{
		RootDir:        dir,
		MaxDepth:       cfg.Walker.MaxDepth,
		FollowSymlinks: cfg.Walker.FollowSymlinks,
		IncludeHidden:  cfg.Walker.IncludeHidden,
		RespectIgnore:  cfg.Walker.RespectIgnore,
		Exclude:        cfg.Walker.Exclude,
		Workers:        cfg.Walker.Workers,
	}
	showOwner := cfg.Output.ShowOwner
	if ov.all != nil {
		opts.IncludeHidden = *ov.all
	}
	if ov.noIgnore != nil {
		opts.RespectIgnore = !*ov.noIgnore
	}
	if ov.depth != nil {
		opts.MaxDepth = *ov.depth
	}
	if ov.workers != nil {
		opts.Workers = *ov.workers
	}
	if ov.showOwner != nil {
		showOwner = *ov.showOwner
	}

	w, err := walker.New(ignore.NewResolver())
	if err != nil {
		return err
	}
	results, err := w.Walk(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	switch cfg.Output.Color {
	case "always":
		out.SetColor(true)
	case "never":
		out.SetColor(false)
	}
	if ov.noColor {
		out.SetColor(false)
	}

	errOut := output.New(cmd.ErrOrStderr())
	var entries []*walker.Entry
	for r := range results {
		if r.Err != nil {
			errOut.Errorf("walk: %v", r.Err)
			continue
		}
		if ov.flat {
			out.Println(r.Entry.RelPath)
			continue
		}
		entries = append(entries, r.Entry)
	}
	if !ov.flat {
		renderTree(out, dir, entries, showOwner)
	}
	return nil
}

// renderTree prints collected entries with box-drawing connectors.
func renderTree(out *output.Writer, root string, entries []*walker.Entry, showOwner bool) {
	children := make(map[string][]*walker.Entry)
	for _, e := range entries {
		parent := filepath.Dir(e.RelPath)
		children[parent] = append(children[parent], e)
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
	}

	var render func(parent, prefix string)
	render = func(parent, prefix string) {
		kids := children[parent]
		for i, e := range kids {
			connector, childPrefix := "├── ", prefix+"│   "
			if i == len(kids)-1 {
				connector, childPrefix = "└── ", prefix+"    "
			}
			line := prefix + connector + out.Entry(e.Name, e.IsDir, e.IsSymlink)
			if showOwner && e.HasOwner {
				line += "  " + out.Owner(permview.UserName(e.UID), permview.GroupName(e.GID))
			}
			out.Println(line)
			if e.IsDir {
				render(e.RelPath, childPrefix)
			}
		}
	}

	out.Println(out.Entry(root, true, false))
	render(".", "")
}
