// Package config is the persisted-configuration loader (spec.md §6
// "Persisted state"). Grounded on
// original_source/cognitive/qualia/src/configuration.rs's
// CompositorConfig/StrategistConfig/AestheticsConfig split, flattened
// onto the single struct engine.Config already declares, plus the
// aesthetics/strategist fields the engine needs at start but doesn't own
// itself. Uses github.com/spf13/viper, one of the teacher's own go.mod
// dependencies not otherwise exercised by ctxmenu.go (a single-process
// tool with no persisted config of its own) — wired here exactly for the
// purpose viper exists for: TOML/YAML file plus env-var override loading.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/peria-go/peria/internal/engine"
)

// Defaults mirror qualia's CompositorConfig/StrategistConfig defaults
// (move_step/resize_step/choose_target/choose_floating) as described in
// spec.md §6.
const (
	DefaultMoveStep           = 10
	DefaultResizeStep         = 10
	DefaultChooseTargetName   = "always_floating"
	DefaultChooseFloatingName = "always_centered"
)

// Load reads persisted configuration from path (if non-empty) plus
// PERIA_-prefixed environment overrides, and returns the engine.Config
// the rest of the module is started with. A missing path is not an
// error — defaults apply, matching qualia's "config files are optional,
// a running compositor needs none" stance.
func Load(path string) (engine.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PERIA")
	v.AutomaticEnv()

	v.SetDefault("move_step", DefaultMoveStep)
	v.SetDefault("resize_step", DefaultResizeStep)
	v.SetDefault("choose_target", DefaultChooseTargetName)
	v.SetDefault("choose_floating", DefaultChooseFloatingName)
	v.SetDefault("background_path", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return engine.Config{}, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	return engine.Config{
		MoveStep:           v.GetInt("move_step"),
		ResizeStep:         v.GetInt("resize_step"),
		ChooseTargetName:   v.GetString("choose_target"),
		ChooseFloatingName: v.GetString("choose_floating"),
		BackgroundPath:     v.GetString("background_path"),
	}, nil
}

// Serialize renders cfg the way perceptiactl's verify-config prints
// "effective configuration" after a successful load — a flat key=value
// listing, not the original's full TOML re-serialization, since
// engine.Config itself is already the flattened, effective shape.
func Serialize(cfg engine.Config) string {
	return fmt.Sprintf(
		"move_step=%d\nresize_step=%d\nchoose_target=%s\nchoose_floating=%s\nbackground_path=%s\n",
		cfg.MoveStep, cfg.ResizeStep, cfg.ChooseTargetName, cfg.ChooseFloatingName, cfg.BackgroundPath,
	)
}
