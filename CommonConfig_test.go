package planar_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWorldDefMissingFileYieldsDefaults(t *testing.T) {
	def, err := planar.LoadWorldDef(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, planar.MakeWorldDef(), def)
}

func TestLoadWorldDefYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	content := "gravity: [0, -3.7]\nlinearSlop: 0.01\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	def, err := planar.LoadWorldDef(path)
	require.NoError(t, err)

	assert.Equal(t, planar.MakeVec2(0, -3.7), def.Gravity)
	assert.Equal(t, 0.01, def.LinearSlop)
	// Omitted fields keep their defaults.
	assert.Equal(t, planar.DefaultAngularSlop, def.AngularSlop)
	assert.Equal(t, planar.DefaultMaxVertexRadius, def.MaxVertexRadius)
}

func TestLoadStepConfJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.json")
	content := `{"dt": 0.02, "regVelocityIterations": 4, "doToi": false}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	conf, err := planar.LoadStepConf(path)
	require.NoError(t, err)

	assert.Equal(t, 0.02, conf.Dt)
	assert.InDelta(t, 50.0, conf.InvDt, 1e-12)
	assert.Equal(t, 4, conf.RegVelocityIterations)
	assert.False(t, conf.DoToi)
	// Omitted fields keep their defaults.
	assert.Equal(t, planar.DefaultRegPositionIterations, conf.RegPositionIterations)
	assert.True(t, conf.DoWarmStart)
}

func TestLoadStepConfMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(": not yaml : ["), 0o644))

	conf, err := planar.LoadStepConf(path)
	assert.Error(t, err)
	assert.Equal(t, planar.MakeStepConf(), conf)
}

func TestStepConfRoundTrip(t *testing.T) {
	conf := planar.MakeStepConf()
	conf.SetTime(1.0 / 120.0)
	conf.RegVelocityIterations = 12
	conf.VelocityThreshold = 0.25
	conf.DoToi = false

	path := filepath.Join(t.TempDir(), "tuning", "step.yaml")
	require.NoError(t, planar.SaveStepConf(path, conf))

	loaded, err := planar.LoadStepConf(path)
	require.NoError(t, err)

	assert.Equal(t, conf.Dt, loaded.Dt)
	assert.Equal(t, conf.RegVelocityIterations, loaded.RegVelocityIterations)
	assert.Equal(t, conf.VelocityThreshold, loaded.VelocityThreshold)
	assert.Equal(t, conf.DoToi, loaded.DoToi)
}

func TestStepConfSetTimeTracksRatio(t *testing.T) {
	conf := planar.MakeStepConf()
	conf.SetTime(1.0 / 60.0)
	assert.Equal(t, 1.0, conf.DtRatio)

	conf.SetTime(1.0 / 30.0)
	assert.InDelta(t, 2.0, conf.DtRatio, 1e-12)

	conf.SetTime(0.0)
	assert.Equal(t, 0.0, conf.InvDt)
}
