package verb

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/treescout/treescout/internal/errors"
)

// builtinFunc runs a builtin verb directly instead of spawning a command.
type builtinFunc func(sel Selection, out io.Writer) error

// Registry holds every known verb, builtins first, then configured ones.
// Later registrations win a name collision, so user verbs can shadow
// builtins.
type Registry struct {
	verbs  []*Verb
	byName map[string]*Verb
}

// NewRegistry creates a registry pre-populated with the builtin verbs.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Verb)}
	for _, v := range builtins() {
		r.add(v)
	}
	return r
}

// AddConfigured compiles and registers user-defined verbs. The first invalid
// definition aborts with its position.
func (r *Registry) AddConfigured(defs []Definition) error {
	for i, def := range defs {
		v, err := compile(def)
		if err != nil {
			return fmt.Errorf("verb %d: %w", i+1, err)
		}
		r.add(v)
	}
	return nil
}

// Find returns the verb registered under any of its names.
func (r *Registry) Find(name string) (*Verb, error) {
	if v, ok := r.byName[name]; ok {
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeVerbNotFound, "no such verb: "+name, nil).
		WithSuggestion("run 'treescout verbs' to list available verbs")
}

// All returns every registered verb sorted by canonical name.
func (r *Registry) All() []*Verb {
	out := make([]*Verb, len(r.verbs))
	copy(out, r.verbs)
	sort.Slice(out, func(i, j int) bool { return out[i].Names[0] < out[j].Names[0] })
	return out
}

// Exec runs the verb against the selection. Builtin verbs write to out;
// external verbs inherit out as stdout.
func (r *Registry) Exec(ctx context.Context, v *Verb, sel Selection, out, errOut io.Writer) error {
	if !v.AppliesTo(sel) {
		kind := "directories"
		if v.FileOnly {
			kind = "plain files"
		}
		return errors.New(errors.ErrCodeVerbSelection,
			fmt.Sprintf("verb %q only applies to %s", v.Names[0], kind), nil)
	}
	if v.run != nil {
		return v.run(sel, out)
	}

	argv := v.Argv(sel)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = out
	cmd.Stderr = errOut
	if err := cmd.Run(); err != nil {
		return errors.New(errors.ErrCodeVerbExecFailed, "verb "+v.Names[0]+" failed", err).
			WithDetail("command", argv[0])
	}
	return nil
}

func (r *Registry) add(v *Verb) {
	r.verbs = append(r.verbs, v)
	for _, name := range v.Names {
		r.byName[name] = v
	}
}

// builtins returns the verbs available without any configuration.
func builtins() []*Verb {
	return []*Verb{
		{
			Names:          []string{"print", "pp"},
			Description:    "print the selected path",
			NeedsSelection: true,
			run: func(sel Selection, out io.Writer) error {
				_, err := fmt.Fprintln(out, sel.Path)
				return err
			},
		},
		{
			Names:          []string{"parent"},
			Description:    "print the parent directory of the selected path",
			NeedsSelection: true,
			run: func(sel Selection, out io.Writer) error {
				_, err := fmt.Fprintln(out, filepath.Dir(sel.Path))
				return err
			},
		},
	}
}
