//go:build unix

package permview

import (
	"os"
	"os/user"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported())
}

func TestUserName_ResolvesCurrentUser(t *testing.T) {
	u, err := user.Current()
	require.NoError(t, err)

	got := UserName(uint32(os.Getuid()))
	assert.Equal(t, u.Username, got)

	// Second lookup is served from the cache.
	users, _ := caches()
	_, ok := users.Get(uint32(os.Getuid()))
	assert.True(t, ok)
	assert.Equal(t, got, UserName(uint32(os.Getuid())))
}

func TestGroupName_ResolvesCurrentGroup(t *testing.T) {
	g, err := user.LookupGroupId(strconv.Itoa(os.Getgid()))
	if err != nil {
		t.Skipf("group database unavailable: %v", err)
	}
	got := GroupName(uint32(os.Getgid()))
	assert.Equal(t, g.Name, got)
}

func TestUnknownIDsRenderAsPlaceholder(t *testing.T) {
	// IDs near the top of the range are not allocated on test systems.
	assert.Equal(t, unknownName, UserName(4294901760))
	assert.Equal(t, unknownName, GroupName(4294901760))
}
