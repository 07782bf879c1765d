package ignore

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	// ignoreFileName is the per-directory rule file consumed by the engine.
	ignoreFileName = ".gitignore"
	// repoMetaDir marks a directory as a repository root when present.
	repoMetaDir = ".git"
)

// IsRepo reports whether dir is a repository root, i.e. directly contains
// the repository metadata entry. The entry may be a file (worktrees,
// submodules), so only presence is checked.
func IsRepo(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, repoMetaDir))
	return err == nil
}

// Resolver owns every parsed rule file and answers accept queries against
// chains. Rule files live in a growable arena; chains hold stable FileID
// handles into it, so one physical file is parsed at most once and shared
// across every chain that references it.
//
// Queries only read already-registered files and may run concurrently;
// registering a file (during chain construction) appends to the arena and is
// serialized behind the same lock.
type Resolver struct {
	mu    sync.RWMutex
	files []*RuleFile

	// local memoizes per-directory rule files by file path.
	local map[string]FileID
	// global memoizes the global excludes file per repository root: anchored
	// patterns depend on the root, so the content is re-parsed once per root
	// encountered rather than cached across roots.
	global map[string]FileID

	// reads counts actual rule-file reads, as an instrumentation point for
	// verifying that nothing is parsed twice.
	reads int

	globalPath func() (string, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGlobalIgnoreFile pins the global excludes file to a fixed path instead
// of discovering it from the user's git configuration. An empty path
// disables the global file entirely.
func WithGlobalIgnoreFile(path string) Option {
	return func(r *Resolver) {
		r.globalPath = func() (string, bool) {
			return path, path != ""
		}
	}
}

// NewResolver creates an empty Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		local:      make(map[string]FileID),
		global:     make(map[string]FileID),
		globalPath: globalIgnorePath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RootChain builds the chain for the directory a walk starts from, scanning
// upward until a repository root or the filesystem root is reached. Rule
// files are registered in ascent order (nearest directory first); resolution
// always scans in reverse, see Accepts.
//
// If no repository root is found the chain stays out-of-repo and every rule
// collected on the way is inert.
func (r *Resolver) RootChain(dir string) Chain {
	dir = filepath.Clean(dir)
	var chain Chain
	for {
		isRepo := IsRepo(dir)
		if isRepo {
			if id, ok := r.registerGlobal(dir); ok {
				chain.push(id)
			}
		}
		if id, ok := r.registerLocal(dir); ok {
			chain.push(id)
		}
		if isRepo {
			chain.inRepo = true
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return chain
}

// DeeperChain derives the chain for a child directory visited during a walk.
//
// If dir is itself a repository root the parent chain is discarded entirely:
// rules of an enclosing repository must never leak into a nested one. The
// fresh chain gets the global excludes file (anchored to dir) and is marked
// in-repo. Otherwise the parent chain is cloned. Either way, dir's own rule
// file is appended when the chain is in a repository.
func (r *Resolver) DeeperChain(parent Chain, dir string) Chain {
	var chain Chain
	if IsRepo(dir) {
		if id, ok := r.registerGlobal(dir); ok {
			chain.push(id)
		}
		chain.inRepo = true
	} else {
		chain = parent.clone()
	}
	if chain.inRepo {
		if id, ok := r.registerLocal(dir); ok {
			chain.push(id)
		}
	}
	return chain
}

// Accepts reports whether the path survives the chain's ignore rules.
//
// Outside a repository it is always true. Otherwise rule files are scanned
// in reverse registration order (deepest scope first) and, within a file, in
// stored order (last line of the source file first); the first matching rule
// anywhere decides. No rule matching means the path is not ignored.
//
// Accepts never mutates the chain or the store; it is a pure query.
func (r *Resolver) Accepts(chain Chain, path, filename string, isDir bool) bool {
	if !chain.inRepo {
		return true
	}
	slashed := filepath.ToSlash(path)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(chain.files) - 1; i >= 0; i-- {
		file := r.files[chain.files[i]]
		for _, rule := range file.rules {
			if rule.directoryOnly && !isDir {
				continue
			}
			var matched bool
			if rule.filenameOnly {
				matched = rule.matches(filename)
			} else {
				matched = rule.matches(slashed)
			}
			if matched {
				return rule.negated
			}
		}
	}
	return true
}

// FileReads returns how many rule files have actually been read from disk.
// It only moves when a file is parsed, never on an arena cache hit.
func (r *Resolver) FileReads() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reads
}

// registerLocal loads dir's rule file, memoized by path. A missing or
// unreadable file registers nothing; that is the common case, not an error.
func (r *Resolver) registerLocal(dir string) (FileID, bool) {
	path := filepath.Join(dir, ignoreFileName)

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.local[path]; ok {
		return id, true
	}
	file, err := parseRuleFile(path, dir)
	if err != nil {
		return 0, false
	}
	r.reads++
	id := r.alloc(file)
	r.local[path] = id
	return id, true
}

// registerGlobal loads the global excludes file anchored to repoRoot,
// memoized per root.
func (r *Resolver) registerGlobal(repoRoot string) (FileID, bool) {
	path, ok := r.globalPath()
	if !ok {
		return 0, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.global[repoRoot]; ok {
		return id, true
	}
	file, err := parseRuleFile(path, repoRoot)
	if err != nil {
		return 0, false
	}
	r.reads++
	id := r.alloc(file)
	r.global[repoRoot] = id
	return id, true
}

// alloc appends to the arena. Callers hold the write lock.
func (r *Resolver) alloc(file *RuleFile) FileID {
	r.files = append(r.files, file)
	return FileID(len(r.files) - 1)
}
