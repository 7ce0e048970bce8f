package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peria-go/peria/internal/engine"
)

func TestLoadAppliesDefaultsWithoutPath(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, engine.Config{
		MoveStep:           DefaultMoveStep,
		ResizeStep:         DefaultResizeStep,
		ChooseTargetName:   DefaultChooseTargetName,
		ChooseFloatingName: DefaultChooseFloatingName,
		BackgroundPath:     "",
	}, cfg)
}

func TestLoadReadsOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peria.toml")
	require.NoError(t, os.WriteFile(path, []byte("move_step = 25\nbackground_path = \"/tmp/bg.png\"\n"), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MoveStep)
	assert.Equal(t, DefaultResizeStep, cfg.ResizeStep)
	assert.Equal(t, "/tmp/bg.png", cfg.BackgroundPath)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))

	require.Error(t, err)
}

func TestSerializeRendersEffectiveConfig(t *testing.T) {
	cfg := engine.Config{MoveStep: 5, ResizeStep: 7, ChooseTargetName: "t", ChooseFloatingName: "f", BackgroundPath: "bg.png"}

	out := Serialize(cfg)

	assert.Contains(t, out, "move_step=5")
	assert.Contains(t, out, "background_path=bg.png")
}
