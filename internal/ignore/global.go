package ignore

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// globalIgnorePath returns the location of the user's global excludes file,
// computed at most once per process. Candidates, in order:
//
//  1. git config --global core.excludesFile
//  2. <user config dir>/git/ignore
//  3. <home dir>/.config/git/ignore
//
// The first candidate that can be derived wins; whether the file actually
// exists is left to the parser, which treats a missing file as "no rules".
// All three failing yields no global file, which is not an error.
var globalIgnorePath = sync.OnceValues(func() (string, bool) {
	return discoverGlobalIgnore(gitConfigExcludesFile)
})

// discoverGlobalIgnore is the uncached discovery, split out so the candidate
// order can be tested with a stubbed git config lookup.
func discoverGlobalIgnore(fromGitConfig func() string) (string, bool) {
	if path := fromGitConfig(); path != "" {
		return path, true
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		return filepath.Join(cfg, "git", "ignore"), true
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "git", "ignore"), true
	}
	return "", false
}

// gitConfigExcludesFile reads core.excludesFile from the user's global git
// configuration. Git being absent or the key being unset both yield "".
func gitConfigExcludesFile() string {
	out, err := exec.Command("git", "config", "--global", "core.excludesFile").Output()
	if err != nil {
		return ""
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return ""
	}
	return expandTilde(path)
}

// expandTilde resolves a leading "~/" against the user's home directory.
// Paths that cannot be expanded are returned as-is and will simply fail to
// open later, which degrades to "no global rules".
func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
