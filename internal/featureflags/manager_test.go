package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_Defaults(t *testing.T) {
	m := NewManager("")
	assert.True(t, m.Enabled(RealtimePush, 1))
	assert.True(t, m.Enabled(SuggestedUsers, 1))
	assert.False(t, m.Enabled("unknown", 1))

	var nilManager *Manager
	assert.False(t, nilManager.Enabled(RealtimePush, 1))
}

func TestEnabled_OverridesDefault(t *testing.T) {
	m := NewManager("REALTIME_PUSH = off")
	assert.False(t, m.Enabled(RealtimePush, 1))
	assert.True(t, m.Enabled(SuggestedUsers, 1))
}

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0,g=maybe")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", "g"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=x%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled("broken", 1))
	assert.False(t, m.Enabled("canary", 0), "percentage rollout needs a user")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout is deterministic per user")
	}

	enabled := 0
	for id := uint(1); id <= 1000; id++ {
		if m.Enabled("canary", id) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestNamesAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	assert.Equal(t, []string{RealtimePush, SuggestedUsers, "x", "y", "z"}, m.Names())

	snap := m.Snapshot(123)
	assert.Len(t, snap, 5)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
}
