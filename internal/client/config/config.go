package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the journal CLI.
//
// Fields:
//   - DatabasePath: SQLite file holding entries, the key and playback progress.
//   - BackupDir: directory that receives exported backups.
//   - PlayerCommand: external audio player; the track path is appended.
//   - TickInterval: minutes-bank decay granularity.
//   - ProgressSaveInterval: track position between periodic progress snapshots.
//   - LogLevel: debug, info, warn or error.
//   - S3*: optional S3-compatible backup target; disabled when S3Bucket is empty.
type Config struct {
	DatabasePath         string
	BackupDir            string
	PlayerCommand        string
	TickInterval         time.Duration
	ProgressSaveInterval time.Duration
	LogLevel             string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "journal.db"
	c.BackupDir = "backups"
	c.PlayerCommand = "mpv --no-video --really-quiet"
	c.TickInterval = time.Second
	c.ProgressSaveInterval = 10 * time.Second
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// S3Enabled reports whether backups should also go to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return loadFromArgs(os.Args[1:])
}

func loadFromArgs(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
