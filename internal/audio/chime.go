package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/toastframe/internal/config"
	"github.com/jmylchreest/toastframe/internal/frame"
	"github.com/jmylchreest/toastframe/internal/model"
)

// Chime is a frame.Observer that plays the configured sound whenever a
// toast is presented. Playback happens off the UI context.
type Chime struct {
	frame.NopObserver

	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	enabled bool
	sounds  map[model.Kind]string

	// play is swapped in tests to run synchronously.
	play func(path string)
}

// NewChime creates a Chime configured from cfg.
func NewChime(player *Player, cfg *config.Config, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chime{
		logger: logger,
		player: player,
		sounds: make(map[model.Kind]string),
	}
	c.play = func(path string) {
		go func() { _ = c.player.Play(path) }()
	}
	c.UpdateConfig(cfg)
	return c
}

// UpdateConfig applies new audio settings and preloads the sounds.
// This is called when the config file is hot-reloaded.
func (c *Chime) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sounds := make(map[model.Kind]string)
	for _, kind := range []model.Kind{model.KindActionable, model.KindInformational} {
		path := cfg.SoundFor(kind.String())
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			c.logger.Warn("sound file not found", "kind", kind, "path", path)
			continue
		}
		sounds[kind] = path
	}

	c.player.ClearCache()
	c.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	c.mu.Lock()
	c.enabled = cfg.Audio.Enabled
	c.sounds = sounds
	c.mu.Unlock()

	if !cfg.Audio.Enabled {
		return
	}
	for kind, path := range sounds {
		if err := c.player.Preload(path); err != nil {
			c.logger.Warn("failed to preload sound", "kind", kind, "path", path, "error", err)
		}
	}
	c.logger.Debug("chime configured", "sounds", len(sounds))
}

// SoundFor returns the sound that plays for kind, if any.
func (c *Chime) SoundFor(kind model.Kind) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.enabled {
		return "", false
	}
	path, ok := c.sounds[kind]
	return path, ok
}

// ToastPresented plays the sound for the toast's kind.
func (c *Chime) ToastPresented(r *model.Request, _ int) {
	path, ok := c.SoundFor(r.Kind())
	if !ok {
		return
	}
	c.play(path)
}

// Close releases the audio device.
func (c *Chime) Close() {
	c.player.Close()
}
