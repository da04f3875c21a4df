package config

import (
	"clapshot/internal/assets"
	"clapshot/internal/gamedata"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	DatabaseURL     string
	Seed            uint32 // 0 picks a fresh seed per cabinet
	VolumeThreshold int
	Countdown       int // seconds
	FrameMs         int
	MicWAV          string
	AssetsFile      string
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Seed:            uint32(getEnvInt("SEED", 0)),
		VolumeThreshold: getEnvInt("VOLUME_THRESHOLD", 2000),
		Countdown:       getEnvInt("COUNTDOWN", 60),
		FrameMs:         getEnvInt("FRAME_MS", 16),
		MicWAV:          os.Getenv("MIC_WAV"),
		AssetsFile:      os.Getenv("ASSETS_FILE"),
	}
	if cfg.FrameMs <= 0 {
		cfg.FrameMs = 16
	}
	cfg.VolumeThreshold = clampUint16(cfg.VolumeThreshold)
	cfg.Countdown = clampUint16(cfg.Countdown)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func clampUint16(v int) int {
	return min(max(v, 0), 65535)
}

// Game builds the engine configuration for one cabinet.
func (c Config) Game() gamedata.Config {
	g := gamedata.DefaultConfig()
	g.Countdown = uint16(c.Countdown)
	g.Threshold = uint16(c.VolumeThreshold)
	return g
}

func (c Config) Frame() time.Duration {
	return time.Duration(c.FrameMs) * time.Millisecond
}

// Assets returns the embedded manifest unless ASSETS_FILE overrides it.
func (c Config) Assets() (assets.Manifest, error) {
	if c.AssetsFile == "" {
		return assets.Default(), nil
	}
	m, err := assets.Load(c.AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	return m, nil
}
