package bible_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
)

func TestNewError_WrapsSentinelAndRecordsField(t *testing.T) {
	for _, kind := range bible.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			err := bible.NewError(kind, "metadata.name", "bad %s", "thing")
			require.Error(t, err)
			assert.ErrorIs(t, err, kind.Err())
			assert.Equal(t, kind, bible.KindOf(err))
			assert.Equal(t, []string{"metadata.name"}, bible.FieldsOf(err))

			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, string(kind), oopsErr.Code())
		})
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := bible.NewError(bible.KindDuplicateName, "character.name", "taken")
	wrapped := fmt.Errorf("adding character: %w", err)
	assert.Equal(t, bible.KindDuplicateName, bible.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, bible.ErrDuplicateName))
}

func TestKindOf_ForeignErrorIsEmpty(t *testing.T) {
	assert.Equal(t, bible.Kind(""), bible.KindOf(errors.New("boom")))
	assert.Equal(t, bible.Kind(""), bible.KindOf(nil))
	assert.Nil(t, bible.FieldsOf(errors.New("boom")))
}

func TestDescribe_PrefixesKind(t *testing.T) {
	err := bible.NewError(bible.KindWorldNotFound, "world_id", "world %q not found", "w-1")
	assert.Contains(t, bible.Describe(err), "WORLD_NOT_FOUND: ")
	assert.Contains(t, bible.Describe(err), `world "w-1" not found`)
	assert.Equal(t, "boom", bible.Describe(errors.New("boom")))
}

func TestKind_ErrUnknownIsNil(t *testing.T) {
	assert.Nil(t, bible.Kind("NOPE").Err())
}
