// Package walker streams the visible entries of a directory tree, asking the
// ignore resolver per directory which chain applies and per entry whether it
// survives.
package walker

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/treescout/treescout/internal/errors"
	"github.com/treescout/treescout/internal/ignore"
)

// chainCacheSize bounds the per-directory chain cache so long-running
// processes cannot grow without limit.
const chainCacheSize = 1024

// Walker discovers visible entries under a root directory.
type Walker struct {
	resolver *ignore.Resolver

	// chains caches the derived chain per absolute directory path, so
	// overlapping walks reuse chain derivations (the resolver already
	// guarantees rule files themselves are parsed once).
	chains *lru.Cache[string, ignore.Chain]
}

// New creates a Walker on top of the given resolver.
func New(resolver *ignore.Resolver) (*Walker, error) {
	cache, err := lru.New[string, ignore.Chain](chainCacheSize)
	if err != nil {
		return nil, errors.InternalError("failed to create chain cache", err)
	}
	return &Walker{resolver: resolver, chains: cache}, nil
}

// Walk streams visible entries under opts.RootDir. The returned channel is
// closed when the walk finishes or ctx is cancelled. Unreadable
// subdirectories surface as Result.Err and never stop the walk.
func (w *Walker) Walk(ctx context.Context, opts Options) (<-chan Result, error) {
	root := opts.RootDir
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFileNotFound, "cannot stat walk root: "+absRoot, err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeNotADirectory, "walk root is not a directory: "+absRoot, nil)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make(chan Result, workers*16)
	go func() {
		defer close(results)

		chain := w.resolver.RootChain(absRoot)
		slog.Debug("walk started",
			slog.String("root", absRoot),
			slog.Bool("in_repo", chain.InRepo()),
			slog.Int("workers", workers))

		g := new(errgroup.Group)
		g.SetLimit(workers)
		w.walkDir(ctx, g, absRoot, "", chain, 0, opts, results)
		_ = g.Wait()
	}()
	return results, nil
}

// walkDir reads one directory and recurses. Subdirectories are handed to the
// group when a worker slot is free, otherwise walked in place, so the walk
// never deadlocks on its own limit.
func (w *Walker) walkDir(ctx context.Context, g *errgroup.Group, dir, rel string, chain ignore.Chain, depth int, opts Options, results chan<- Result) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories contribute nothing.
		emit(ctx, results, Result{Err: err})
		return
	}

	for _, de := range dirents {
		if ctx.Err() != nil {
			return
		}
		name := de.Name()
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		relPath := filepath.Join(rel, name)
		if excluded(relPath, name, opts.Exclude) {
			continue
		}

		absPath := filepath.Join(dir, name)
		isSymlink := de.Type()&fs.ModeSymlink != 0
		isDir := de.IsDir()
		if isSymlink && opts.FollowSymlinks {
			if target, err := os.Stat(absPath); err == nil {
				isDir = target.IsDir()
			}
		}

		if opts.RespectIgnore && !w.resolver.Accepts(chain, absPath, name, isDir) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		entry := &Entry{
			RelPath:   relPath,
			AbsPath:   absPath,
			Name:      name,
			IsDir:     isDir,
			IsSymlink: isSymlink,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Mode:      info.Mode(),
		}
		entry.UID, entry.GID, entry.HasOwner = ownership(info)

		if !emit(ctx, results, Result{Entry: entry}) {
			return
		}

		descend := isDir && (!isSymlink || opts.FollowSymlinks)
		if descend && (opts.MaxDepth == 0 || depth+1 < opts.MaxDepth) {
			childChain := w.chainFor(chain, absPath)
			childRel, childDepth := relPath, depth+1
			if !g.TryGo(func() error {
				w.walkDir(ctx, g, absPath, childRel, childChain, childDepth, opts, results)
				return nil
			}) {
				w.walkDir(ctx, g, absPath, childRel, childChain, childDepth, opts, results)
			}
		}
	}
}

// chainFor derives (or recalls) the ignore chain for a child directory.
func (w *Walker) chainFor(parent ignore.Chain, absDir string) ignore.Chain {
	if chain, ok := w.chains.Get(absDir); ok {
		return chain
	}
	chain := w.resolver.DeeperChain(parent, absDir)
	w.chains.Add(absDir, chain)
	return chain
}

// InvalidateChains drops every cached chain. Callers use it when rule files
// are known to have changed between walks.
func (w *Walker) InvalidateChains() {
	w.chains.Purge()
}

func excluded(relPath, name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashed := filepath.ToSlash(relPath)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func emit(ctx context.Context, results chan<- Result, r Result) bool {
	select {
	case results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
