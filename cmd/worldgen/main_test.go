package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/game/genesis"
)

func TestGenerateAllStyles(t *testing.T) {
	catalog, err := genesis.LoadEmbedded()
	require.NoError(t, err)

	for _, s := range bible.Styles {
		t.Run(string(s), func(t *testing.T) {
			w, err := generate(catalog, string(s), true)
			require.NoError(t, err)
			assert.Equal(t, s, w.Metadata.Style)
		})
	}
}

func TestGenerateUnknownStyle(t *testing.T) {
	catalog, err := genesis.LoadEmbedded()
	require.NoError(t, err)

	_, err = generate(catalog, "Western", false)
	require.Error(t, err)
	assert.Equal(t, bible.KindInvalidEnum, bible.KindOf(err))
}

func TestWriteFormats(t *testing.T) {
	catalog, err := genesis.LoadEmbedded()
	require.NoError(t, err)
	w, err := generate(catalog, "Fantasy", false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, write(&buf, w, "yaml"))
	var fromYAML bible.WorldBible
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, w.Metadata.Name, fromYAML.Metadata.Name)

	buf.Reset()
	require.NoError(t, write(&buf, w, "json"))
	var fromJSON bible.WorldBible
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, w.Cosmology.TechLevel, fromJSON.Cosmology.TechLevel)

	assert.Error(t, write(&buf, w, "toml"))
}
