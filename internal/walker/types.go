package walker

import (
	"io/fs"
	"time"
)

// Options controls a single walk.
type Options struct {
	// RootDir is the directory to walk. Defaults to ".".
	RootDir string

	// MaxDepth limits descent below the root; 0 means unlimited.
	MaxDepth int

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool

	// IncludeHidden emits dot-entries (including repository metadata
	// directories, which are hidden by the same rule).
	IncludeHidden bool

	// RespectIgnore runs hierarchical ignore resolution; paths rejected by
	// their directory's chain are neither emitted nor descended into.
	RespectIgnore bool

	// Exclude holds glob patterns pruned before ignore resolution, matched
	// against the root-relative path and the bare name.
	Exclude []string

	// Workers bounds concurrent directory reads. Values below 2 walk
	// serially.
	Workers int
}

// Entry is one visible filesystem node.
type Entry struct {
	// RelPath is relative to the walk root, using the OS separator.
	RelPath string
	// AbsPath is the absolute path.
	AbsPath string
	// Name is the base name.
	Name string

	IsDir     bool
	IsSymlink bool
	Size      int64
	ModTime   time.Time
	Mode      fs.FileMode

	// UID and GID are set on platforms that expose ownership; HasOwner
	// reports whether they are meaningful.
	UID      uint32
	GID      uint32
	HasOwner bool
}

// Result streams either an entry or a non-fatal walk error.
type Result struct {
	Entry *Entry
	Err   error
}
