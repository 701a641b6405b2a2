package profile_test

import (
	"path/filepath"
	"testing"

	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/relabs-tech/ratonaut/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingRecordUsesDefaults(t *testing.T) {
	s := profile.NewStore(kv.NewMemoryStore())
	assert.Equal(t, profile.Default(), s.Load())
}

func TestLoadMalformedRecordUsesDefaults(t *testing.T) {
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(profile.Key, "not-json"))

	p := profile.NewStore(mem).Load()

	assert.Equal(t, "Nibbles", p.Name)
	assert.Equal(t, "Syrian Hamster", p.Species)
	assert.Equal(t, 120, p.Weight)
	assert.Equal(t, 6, p.Age)
	assert.Equal(t, profile.Goals{PPS: 8.5, Speed: 1.2}, p.Goals)
	assert.Equal(t, profile.Preferences{Haptics: true, Audio: true}, p.Preferences)
}

func TestLoadInvalidRecordUsesDefaults(t *testing.T) {
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(profile.Key, `{"species":"Capybara"}`))
	assert.Equal(t, profile.Default(), profile.NewStore(mem).Load())
}

func TestLoadPartialRecordKeepsDefaults(t *testing.T) {
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(profile.Key, `{"name":"Pip","goals":{"speed":1.5}}`))

	p := profile.NewStore(mem).Load()
	assert.Equal(t, "Pip", p.Name)
	assert.Equal(t, 1.5, p.Goals.Speed)
	assert.Equal(t, 8.5, p.Goals.PPS)
	assert.Equal(t, "Syrian Hamster", p.Species)
}

func TestSaveOverwritesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	s := profile.NewStore(kv.NewFileStore(path))

	p := profile.Default()
	p.Name = "Biscuit"
	p.Species = "Roborovski"
	p.Weight = 25
	require.NoError(t, s.Save(p))

	p.Weight = 27
	require.NoError(t, s.Save(p))

	got := profile.NewStore(kv.NewFileStore(path)).Load()
	assert.Equal(t, p, got)
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := profile.NewStore(kv.NewMemoryStore())
	p := profile.Default()
	p.Weight = -1
	require.Error(t, s.Save(p))

	p = profile.Default()
	p.Species = "Dragon"
	require.Error(t, s.Save(p))
}

func TestSetGoal(t *testing.T) {
	p := profile.Default()
	require.NoError(t, p.SetGoal("pps", "10.5"))
	assert.Equal(t, 10.5, p.Goals.PPS)

	require.NoError(t, p.SetGoal("speed", "fast"))
	assert.Equal(t, 0.0, p.Goals.Speed)

	require.Error(t, p.SetGoal("distance", "1"))
}

func TestTogglePreference(t *testing.T) {
	p := profile.Default()
	require.NoError(t, p.TogglePreference("audio"))
	assert.False(t, p.Preferences.Audio)
	assert.True(t, p.Preferences.Haptics)
	require.Error(t, p.TogglePreference("smell"))
}
