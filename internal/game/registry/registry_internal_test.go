package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/testutil"
)

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	r := New()
	ids := []string{"w-1", "w-1", "w-1", "w-2"}
	r.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	w := testutil.World(t, bible.StyleFantasy)

	first := r.Create(w)
	second := r.Create(w)

	assert.Equal(t, "w-1", first)
	assert.Equal(t, "w-2", second)
	require.Equal(t, 2, r.Len())
}
