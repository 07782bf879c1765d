//go:build unix

package walker

import (
	"io/fs"
	"syscall"
)

// ownership extracts numeric uid/gid from the platform stat data.
func ownership(info fs.FileInfo) (uid, gid uint32, ok bool) {
	if st, okSt := info.Sys().(*syscall.Stat_t); okSt {
		return st.Uid, st.Gid, true
	}
	return 0, 0, false
}
