package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/relabs-tech/ratonaut/internal/profile"
)

func runProfile(t *testing.T, store *profile.Store, args ...string) profile.Profile {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, editProfile(store, args, &out))
	var p profile.Profile
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	return p
}

func TestEditProfile(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := profile.NewStore(mem)

	assert.Equal(t, profile.Default(), runProfile(t, store, "show"))
	_, ok, err := mem.Get(profile.Key)
	require.NoError(t, err)
	assert.False(t, ok, "show must not write")

	runProfile(t, store, "name", "Pip")
	runProfile(t, store, "species", "Gerbil")
	runProfile(t, store, "goal", "speed", "0.9")
	p := runProfile(t, store, "toggle", "audio")

	assert.Equal(t, "Pip", p.Name)
	assert.Equal(t, "Gerbil", p.Species)
	assert.Equal(t, 0.9, p.Goals.Speed)
	assert.False(t, p.Preferences.Audio)
	assert.Equal(t, p, store.Load())

	// unparseable goal input becomes 0, like the edit form
	p = runProfile(t, store, "goal", "pps", "lots")
	assert.Equal(t, 0.0, p.Goals.PPS)
}

func TestEditProfileErrors(t *testing.T) {
	store := profile.NewStore(kv.NewMemoryStore())
	var out bytes.Buffer

	require.Error(t, editProfile(store, nil, &out))
	require.Error(t, editProfile(store, []string{"goal", "pps"}, &out))
	require.Error(t, editProfile(store, []string{"goal", "stride", "3"}, &out))
	require.Error(t, editProfile(store, []string{"toggle", "smell"}, &out))
	require.Error(t, editProfile(store, []string{"species", "Capybara"}, &out))
	require.Error(t, editProfile(store, []string{"age", "old"}, &out))
	assert.Equal(t, profile.Default(), store.Load())
	assert.Empty(t, out.String())
}
