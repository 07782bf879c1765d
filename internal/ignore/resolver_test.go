package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepo creates a repository root under parent and returns its path.
func newRepo(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return dir
}

// noGlobal builds a resolver with the global excludes file disabled, so
// tests only see the rule files they create themselves.
func noGlobal() *Resolver {
	return NewResolver(WithGlobalIgnoreFile(""))
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	repo := newRepo(t, dir, "repo")
	assert.True(t, IsRepo(repo))

	// A .git file (worktree, submodule) also marks a root.
	other := filepath.Join(dir, "worktree")
	require.NoError(t, os.MkdirAll(other, 0o755))
	writeFile(t, filepath.Join(other, ".git"), "gitdir: elsewhere\n")
	assert.True(t, IsRepo(other))
}

func TestAccepts_LastLineWinsWithinFile(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "build/\n!build/\n")

	r := noGlobal()
	chain := r.RootChain(repo)
	assert.True(t, r.Accepts(chain, filepath.Join(repo, "build"), "build", true),
		"the later !build/ line overrides build/")

	writeFile(t, filepath.Join(repo, ".gitignore"), "!build/\nbuild/\n")
	r = noGlobal()
	chain = r.RootChain(repo)
	assert.False(t, r.Accepts(chain, filepath.Join(repo, "build"), "build", true))
}

func TestAccepts_DeeperScopeWins(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	// The ancestor lists more rules than the child; count must not matter.
	writeFile(t, filepath.Join(repo, ".gitignore"), "*.bak\n*.tmp\n*.swp\n")
	sub := filepath.Join(repo, "sub")
	writeFile(t, filepath.Join(sub, ".gitignore"), "!*.tmp\n")

	r := noGlobal()
	root := r.RootChain(repo)
	child := r.DeeperChain(root, sub)

	assert.False(t, r.Accepts(root, filepath.Join(repo, "a.tmp"), "a.tmp", false))
	assert.True(t, r.Accepts(child, filepath.Join(sub, "a.tmp"), "a.tmp", false),
		"child rule overrides inherited one")
	assert.False(t, r.Accepts(child, filepath.Join(sub, "a.bak"), "a.bak", false),
		"unrelated ancestor rules still apply")
}

func TestAccepts_DirectoryOnlyNeverMatchesFiles(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "foo/\n")

	r := noGlobal()
	chain := r.RootChain(repo)
	assert.True(t, r.Accepts(chain, filepath.Join(repo, "foo"), "foo", false))
	assert.False(t, r.Accepts(chain, filepath.Join(repo, "foo"), "foo", true))
}

func TestAccepts_FilenameOnlyMatchesAtAnyDepth(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "*.log\n")

	r := noGlobal()
	chain := r.RootChain(repo)
	deep := filepath.Join(repo, "a", "b", "c", "x.log")
	assert.False(t, r.Accepts(chain, deep, "x.log", false))
	assert.True(t, r.Accepts(chain, filepath.Join(repo, "x.txt"), "x.txt", false))
}

func TestAccepts_AnchoredMatchesOnlyAtAnchor(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "/build\n")

	r := noGlobal()
	chain := r.RootChain(repo)
	assert.False(t, r.Accepts(chain, filepath.Join(repo, "build"), "build", true))
	assert.True(t, r.Accepts(chain, filepath.Join(repo, "sub", "build"), "build", true))
}

func TestDeeperChain_RepositoryBoundaryReset(t *testing.T) {
	outer := newRepo(t, t.TempDir(), "outer")
	writeFile(t, filepath.Join(outer, ".gitignore"), "*.log\n")
	vendor := newRepo(t, outer, "vendor")

	r := noGlobal()
	parent := r.RootChain(outer)
	nested := r.DeeperChain(parent, vendor)

	assert.True(t, nested.InRepo())
	assert.Zero(t, nested.Len(), "no rule file of the outer repository leaks in")
	assert.True(t, r.Accepts(nested, filepath.Join(vendor, "x.log"), "x.log", false),
		"outer *.log must not apply inside the nested repository")
	assert.False(t, r.Accepts(parent, filepath.Join(outer, "x.log"), "x.log", false))
}

func TestDeeperChain_NestedRepoLoadsOwnRules(t *testing.T) {
	outer := newRepo(t, t.TempDir(), "outer")
	vendor := newRepo(t, outer, "vendor")
	writeFile(t, filepath.Join(vendor, ".gitignore"), "dist/\n")

	r := noGlobal()
	nested := r.DeeperChain(r.RootChain(outer), vendor)
	assert.False(t, r.Accepts(nested, filepath.Join(vendor, "dist"), "dist", true))
}

func TestAccepts_OutsideRepositoryIsInert(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\n")

	r := noGlobal()
	chain := r.RootChain(dir)
	require.False(t, chain.InRepo())
	assert.True(t, r.Accepts(chain, filepath.Join(dir, "x.log"), "x.log", false),
		"rules are inert outside any repository, even when they would match")
}

func TestResolver_IdempotentParsing(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "*.tmp\n")
	sub := filepath.Join(repo, "sub")
	writeFile(t, filepath.Join(sub, ".gitignore"), "!keep.tmp\n")

	r := noGlobal()
	root := r.RootChain(repo)
	assert.Equal(t, 1, r.FileReads())

	first := r.DeeperChain(root, sub)
	second := r.DeeperChain(root, sub)
	assert.Equal(t, 2, r.FileReads(), "the same rule file is never read twice")
	assert.Equal(t, first.Len(), second.Len())

	// Both derived chains resolve through the same stored file.
	assert.True(t, r.Accepts(first, filepath.Join(sub, "keep.tmp"), "keep.tmp", false))
	assert.True(t, r.Accepts(second, filepath.Join(sub, "keep.tmp"), "keep.tmp", false))
}

func TestResolver_GlobalExcludesAnchoredPerRoot(t *testing.T) {
	base := t.TempDir()
	global := filepath.Join(base, "global-ignore")
	writeFile(t, global, "*.orig\n/scratch\n")

	repo := newRepo(t, base, "repo")
	r := NewResolver(WithGlobalIgnoreFile(global))
	chain := r.RootChain(repo)

	assert.False(t, r.Accepts(chain, filepath.Join(repo, "a.orig"), "a.orig", false))
	// The anchored /scratch binds to this repository root.
	assert.False(t, r.Accepts(chain, filepath.Join(repo, "scratch"), "scratch", true))
	assert.True(t, r.Accepts(chain, filepath.Join(repo, "sub", "scratch"), "scratch", true))

	// A second repository root re-parses the global file once for its own
	// anchor, then reuses it.
	other := newRepo(t, base, "other")
	reads := r.FileReads()
	_ = r.RootChain(other)
	_ = r.RootChain(other)
	assert.Equal(t, reads+1, r.FileReads())
}

func TestResolver_MissingAndUnreadableFilesContributeNothing(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")

	r := noGlobal()
	chain := r.RootChain(repo)
	assert.True(t, chain.InRepo())
	assert.Zero(t, chain.Len())
	assert.Zero(t, r.FileReads())
	assert.True(t, r.Accepts(chain, filepath.Join(repo, "anything"), "anything", false))
}

func TestEndToEndScenario(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "*.tmp\n")
	src := filepath.Join(repo, "src")
	writeFile(t, filepath.Join(src, ".gitignore"), "!keep.tmp\n")

	r := noGlobal()
	root := r.RootChain(repo)
	require.True(t, root.InRepo())
	assert.True(t, r.Accepts(root, filepath.Join(repo, "a.txt"), "a.txt", false))
	assert.False(t, r.Accepts(root, filepath.Join(repo, "a.tmp"), "a.tmp", false))

	deeper := r.DeeperChain(root, src)
	assert.False(t, r.Accepts(deeper, filepath.Join(src, "other.tmp"), "other.tmp", false))
	assert.True(t, r.Accepts(deeper, filepath.Join(src, "keep.tmp"), "keep.tmp", false))
}

func TestRootChain_StartingBelowRepositoryRoot(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "*.tmp\n")
	deep := filepath.Join(repo, "a", "b")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	r := noGlobal()
	chain := r.RootChain(deep)
	require.True(t, chain.InRepo(), "ascent stops at the repository root")
	assert.False(t, r.Accepts(chain, filepath.Join(deep, "x.tmp"), "x.tmp", false))
}

func TestAccepts_ConcurrentQueries(t *testing.T) {
	repo := newRepo(t, t.TempDir(), "repo")
	writeFile(t, filepath.Join(repo, ".gitignore"), "*.tmp\n")

	r := noGlobal()
	chain := r.RootChain(repo)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 500; j++ {
				// Queries are pure and may interleave with registrations.
				r.Accepts(chain, filepath.Join(repo, "x.tmp"), "x.tmp", false)
				sub := filepath.Join(repo, "sub")
				r.DeeperChain(chain, sub)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
