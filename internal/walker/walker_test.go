package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treescout/treescout/internal/ignore"
)

// fixtureTree builds a repository with ignored and kept entries:
//
//	repo/.gitignore   *.tmp, build/
//	repo/src/.gitignore  !keep.tmp
//	repo/vendor       a nested repository (boundary reset)
func fixtureTree(t *testing.T) string {
	t.Helper()
	repo := filepath.Join(t.TempDir(), "repo")
	mkdirs := []string{
		filepath.Join(repo, ".git"),
		filepath.Join(repo, "build"),
		filepath.Join(repo, "src"),
		filepath.Join(repo, "vendor", ".git"),
	}
	for _, d := range mkdirs {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	files := map[string]string{
		filepath.Join(repo, ".gitignore"):         "*.tmp\nbuild/\n",
		filepath.Join(repo, "a.txt"):              "",
		filepath.Join(repo, "a.tmp"):              "",
		filepath.Join(repo, "build", "inner.txt"): "",
		filepath.Join(repo, "src", ".gitignore"):  "!keep.tmp\n",
		filepath.Join(repo, "src", "keep.tmp"):    "",
		filepath.Join(repo, "src", "other.tmp"):   "",
		filepath.Join(repo, "src", "main.go"):     "",
		filepath.Join(repo, "vendor", "x.tmp"):    "",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return repo
}

func newWalker(t *testing.T) *Walker {
	t.Helper()
	w, err := New(ignore.NewResolver(ignore.WithGlobalIgnoreFile("")))
	require.NoError(t, err)
	return w
}

func collect(t *testing.T, w *Walker, opts Options) []string {
	t.Helper()
	results, err := w.Walk(context.Background(), opts)
	require.NoError(t, err)

	var rels []string
	for r := range results {
		require.NoError(t, r.Err)
		rels = append(rels, filepath.ToSlash(r.Entry.RelPath))
	}
	sort.Strings(rels)
	return rels
}

func TestWalk_RespectsIgnoreChains(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{RootDir: repo, RespectIgnore: true})
	assert.Equal(t, []string{
		"a.txt",
		"src",
		"src/keep.tmp",
		"src/main.go",
		"vendor",
		"vendor/x.tmp",
	}, rels)
}

func TestWalk_IgnoredSubtreesAreNotDescended(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{RootDir: repo, RespectIgnore: true})
	assert.NotContains(t, rels, "build")
	assert.NotContains(t, rels, "build/inner.txt")
}

func TestWalk_NestedRepositoryKeepsOwnView(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{RootDir: repo, RespectIgnore: true})
	assert.Contains(t, rels, "vendor/x.tmp",
		"the outer *.tmp rule must not leak into the nested repository")
}

func TestWalk_WithoutIgnoreResolution(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{RootDir: repo, RespectIgnore: false})
	assert.Contains(t, rels, "a.tmp")
	assert.Contains(t, rels, "build/inner.txt")
	assert.NotContains(t, rels, ".gitignore", "dotfiles stay hidden without IncludeHidden")
}

func TestWalk_IncludeHidden(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{RootDir: repo, RespectIgnore: true, IncludeHidden: true})
	assert.Contains(t, rels, ".gitignore")
	assert.Contains(t, rels, ".git")
}

func TestWalk_MaxDepth(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{RootDir: repo, RespectIgnore: true, MaxDepth: 1})
	assert.Equal(t, []string{"a.txt", "src", "vendor"}, rels)
}

func TestWalk_ExcludePatterns(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	rels := collect(t, w, Options{
		RootDir:       repo,
		RespectIgnore: true,
		Exclude:       []string{"vendor", "**/*.go"},
	})
	assert.NotContains(t, rels, "vendor")
	assert.NotContains(t, rels, "vendor/x.tmp")
	assert.NotContains(t, rels, "src/main.go")
	assert.Contains(t, rels, "src/keep.tmp")
}

func TestWalk_ParallelMatchesSerial(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	serial := collect(t, w, Options{RootDir: repo, RespectIgnore: true, Workers: 1})
	parallel := collect(t, w, Options{RootDir: repo, RespectIgnore: true, Workers: 4})
	assert.Equal(t, serial, parallel)
}

func TestWalk_RootMustBeDirectory(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	_, err := w.Walk(context.Background(), Options{RootDir: filepath.Join(repo, "a.txt")})
	require.Error(t, err)

	_, err = w.Walk(context.Background(), Options{RootDir: filepath.Join(repo, "missing")})
	require.Error(t, err)
}

func TestWalk_Cancellation(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	ctx, cancel := context.WithCancel(context.Background())
	results, err := w.Walk(ctx, Options{RootDir: repo, RespectIgnore: true})
	require.NoError(t, err)
	cancel()

	// The channel must close even though nothing drains it after cancel.
	for range results {
	}
}

func TestWalk_EntryMetadata(t *testing.T) {
	repo := fixtureTree(t)
	w := newWalker(t)

	results, err := w.Walk(context.Background(), Options{RootDir: repo, RespectIgnore: true})
	require.NoError(t, err)
	byRel := map[string]*Entry{}
	for r := range results {
		require.NoError(t, r.Err)
		byRel[filepath.ToSlash(r.Entry.RelPath)] = r.Entry
	}

	src := byRel["src"]
	require.NotNil(t, src)
	assert.True(t, src.IsDir)
	assert.Equal(t, "src", src.Name)
	assert.Equal(t, filepath.Join(repo, "src"), src.AbsPath)

	file := byRel["a.txt"]
	require.NotNil(t, file)
	assert.False(t, file.IsDir)
	assert.False(t, file.ModTime.IsZero())
}
