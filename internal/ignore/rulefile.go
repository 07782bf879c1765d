package ignore

import (
	"bufio"
	"os"
)

// RuleFile holds the rules of one physical ignore file, stored in reverse of
// file order so that the first stored rule to match a path realizes
// "last matching line in the file wins".
//
// A RuleFile is parsed once, then shared by handle across every chain that
// references it.
type RuleFile struct {
	rules []Rule
}

// parseRuleFile reads and compiles an ignore file. The refDir anchors
// patterns starting with "/"; it is the directory containing a local ignore
// file, or the repository root for the global excludes file.
//
// An open failure (including "file does not exist", the common case) is
// returned to the caller, which treats it as "this file contributes no
// rules" rather than an error to surface.
func parseRuleFile(path, refDir string) (*RuleFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var rules []Rule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if r, ok := parseRule(scanner.Text(), refDir); ok {
			rules = append(rules, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Last line wins, so reverse once here and scan forward at query time.
	for i, j := 0, len(rules)-1; i < j; i, j = i+1, j-1 {
		rules[i], rules[j] = rules[j], rules[i]
	}
	return &RuleFile{rules: rules}, nil
}
