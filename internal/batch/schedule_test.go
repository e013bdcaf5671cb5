package batch

import (
	"testing"

	"github.com/san-kum/poelab/internal/catalog"
	"github.com/san-kum/poelab/internal/engine/enginetest"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePush(t *testing.T) {
	ev, err := ParsePush("box:0.05,-0.01@1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, ev.at)
	assert.Equal(t, "push box (0.05, -0.01)", ev.desc)

	ev, err = ParsePush("box:1,0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ev.at)

	for _, bad := range []string{"box", ":1,0", "box:1", "box:x,0", "box:1,0@-1", "box:1,0@soon"} {
		_, err := ParsePush(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSet(t *testing.T) {
	ev, err := ParseSet("ground.friction=0@2")
	require.NoError(t, err)
	assert.Equal(t, 2.0, ev.at)
	assert.Equal(t, "set ground.friction = 0", ev.desc)

	// ids may contain dots; the property is the last segment
	ev, err = ParseSet("cart.a.mass=3")
	require.NoError(t, err)
	assert.Equal(t, "set cart.a.mass = 3", ev.desc)

	for _, bad := range []string{"ground.friction", "friction=0", "ground.=1", "ground.colour=1", "ground.friction=high"} {
		_, err := ParseSet(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedule_FiresInOrder(t *testing.T) {
	src, err := catalog.Resolve("friction", nil)
	require.NoError(t, err)
	s := runtime.NewSession(src.Doc, runtime.Options{Engine: enginetest.New()})
	require.NoError(t, s.Build())
	defer s.Teardown()

	sc, err := NewSchedule([]string{"box:0.05,0@1"}, []string{"ground.friction=0.1@0.5", "box.mass=8"})
	require.NoError(t, err)
	assert.Equal(t, 3, sc.Len())

	assert.Equal(t, []string{"set box.mass = 8"}, sc.Fire(s, 0))
	assert.Equal(t, 8.0, s.Snapshot()["box"].Mass)

	assert.Empty(t, sc.Fire(s, 0.4))
	assert.Equal(t, []string{"set ground.friction = 0.1"}, sc.Fire(s, 0.5))
	assert.Equal(t, []string{"push box (0.05, 0)"}, sc.Fire(s, 3))
	assert.Empty(t, sc.Fire(s, 10))
}

func TestSchedule_RejectsBadEntries(t *testing.T) {
	_, err := NewSchedule([]string{"nope"}, nil)
	assert.Error(t, err)
	_, err = NewSchedule(nil, []string{"nope"})
	assert.Error(t, err)
}
