package ignore

// FileID is a stable handle into a Resolver's rule-file arena. Handles stay
// valid for the Resolver's whole lifetime; chains hold handles, never the
// parsed files themselves.
type FileID int

// Chain is the set of rule files in scope for one directory: a repository
// flag plus rule-file handles in the order they were registered. Resolution
// scans the handles in reverse, so a handle appended later (a deeper
// directory's file) takes priority.
//
// Chains are cheap values associated 1:1 with a visited directory. Deriving
// a child chain clones the parent; an existing chain is never mutated by a
// query.
type Chain struct {
	inRepo bool
	files  []FileID
}

// InRepo reports whether the chain's directory is inside a repository.
// When false, every ignore rule is inert for that directory and its
// descendants until a repository boundary is crossed.
func (c Chain) InRepo() bool {
	return c.inRepo
}

// Len returns the number of rule files referenced by the chain.
func (c Chain) Len() int {
	return len(c.files)
}

// clone copies the chain so that appends on the child never alias the
// parent's backing array.
func (c Chain) clone() Chain {
	files := make([]FileID, len(c.files), len(c.files)+1)
	copy(files, c.files)
	return Chain{inRepo: c.inRepo, files: files}
}

func (c *Chain) push(id FileID) {
	c.files = append(c.files, id)
}
