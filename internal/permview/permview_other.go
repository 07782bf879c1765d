//go:build !unix

package permview

// Supported reports whether ownership display is available on this platform.
func Supported() bool {
	return false
}

// UserName is unavailable on this platform.
func UserName(uid uint32) string {
	return "????"
}

// GroupName is unavailable on this platform.
func GroupName(gid uint32) string {
	return "????"
}
