//go:build unix

// Package permview resolves numeric file ownership to display names.
// Lookups go through the OS user database once and are memoized; the
// package only serves display formatting and never fails a caller: an
// unresolvable id renders as "????".
package permview

import (
	"os/user"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// unknownName is displayed when the user database has no answer.
const unknownName = "????"

// nameCacheSize bounds each id->name cache.
const nameCacheSize = 256

var (
	initCaches sync.Once
	userNames  *lru.Cache[uint32, string]
	groupNames *lru.Cache[uint32, string]
)

func caches() (*lru.Cache[uint32, string], *lru.Cache[uint32, string]) {
	initCaches.Do(func() {
		// Size is a positive constant, construction cannot fail.
		userNames, _ = lru.New[uint32, string](nameCacheSize)
		groupNames, _ = lru.New[uint32, string](nameCacheSize)
	})
	return userNames, groupNames
}

// Supported reports whether ownership display is available on this platform.
func Supported() bool {
	return true
}

// UserName returns the login name for uid, or "????".
func UserName(uid uint32) string {
	users, _ := caches()
	if name, ok := users.Get(uid); ok {
		return name
	}
	name := unknownName
	if u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10)); err == nil {
		name = u.Username
	}
	users.Add(uid, name)
	return name
}

// GroupName returns the group name for gid, or "????".
func GroupName(gid uint32) string {
	_, groups := caches()
	if name, ok := groups.Get(gid); ok {
		return name
	}
	name := unknownName
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10)); err == nil {
		name = g.Name
	}
	groups.Add(gid, name)
	return name
}
