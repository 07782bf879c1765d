// Package verb implements named commands that act on a selected path.
//
// A verb is either builtin or user-defined through configuration. External
// verbs expand a command template against the selection before execution;
// the only data they share with ignore resolution is the selected path
// itself.
package verb

import (
	"path/filepath"
	"strings"

	"github.com/treescout/treescout/internal/errors"
)

// Selection is the path a verb is invoked on.
type Selection struct {
	Path  string
	IsDir bool
}

// Definition is the configuration shape of a user-defined verb.
type Definition struct {
	// Invocation is the primary name, optionally followed by aliases
	// separated by spaces (e.g. "edit e").
	Invocation string `yaml:"invocation"`
	// Execution is the command template. {file} expands to the selected
	// path, {parent} to its parent directory, {directory} to the closest
	// directory (the path itself when it is one).
	Execution   string `yaml:"execution"`
	Description string `yaml:"description"`
	// DirOnly restricts the verb to directory selections.
	DirOnly bool `yaml:"dir_only"`
	// FileOnly restricts the verb to plain-file selections.
	FileOnly bool `yaml:"file_only"`
}

// Verb is a compiled, immutable command.
type Verb struct {
	// Names the verb can be called by; the first one is canonical.
	Names       []string
	Execution   string
	Description string
	DirOnly     bool
	FileOnly    bool
	// NeedsSelection is set when the template references the selection.
	NeedsSelection bool

	// run implements builtin verbs; nil for external ones.
	run builtinFunc
}

// selection template groups recognized in execution templates.
var selectionGroups = []string{"{file}", "{parent}", "{directory}"}

// compile builds a Verb from a definition.
func compile(def Definition) (*Verb, error) {
	names := strings.Fields(def.Invocation)
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeVerbInvalid, "verb has no invocation", nil)
	}
	if strings.TrimSpace(def.Execution) == "" {
		return nil, errors.New(errors.ErrCodeVerbInvalid, "verb has no execution", nil).
			WithDetail("verb", names[0])
	}
	if def.DirOnly && def.FileOnly {
		return nil, errors.New(errors.ErrCodeVerbInvalid, "verb cannot be both dir_only and file_only", nil).
			WithDetail("verb", names[0])
	}

	needsSelection := false
	for _, g := range selectionGroups {
		if strings.Contains(def.Execution, g) {
			needsSelection = true
			break
		}
	}
	return &Verb{
		Names:          names,
		Execution:      def.Execution,
		Description:    def.Description,
		DirOnly:        def.DirOnly,
		FileOnly:       def.FileOnly,
		NeedsSelection: needsSelection,
	}, nil
}

// AppliesTo reports whether the verb's selection condition allows sel.
func (v *Verb) AppliesTo(sel Selection) bool {
	if v.DirOnly && !sel.IsDir {
		return false
	}
	if v.FileOnly && sel.IsDir {
		return false
	}
	return true
}

// Argv expands the execution template into an argument vector.
func (v *Verb) Argv(sel Selection) []string {
	directory := sel.Path
	if !sel.IsDir {
		directory = filepath.Dir(sel.Path)
	}
	replacer := strings.NewReplacer(
		"{file}", sel.Path,
		"{parent}", filepath.Dir(sel.Path),
		"{directory}", directory,
	)

	fields := strings.Fields(v.Execution)
	argv := make([]string, len(fields))
	for i, f := range fields {
		argv[i] = replacer.Replace(f)
	}
	return argv
}
