// Package config loads runtime configuration for the journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the SQLite database
//	-b string   backup directory
//	-p string   audio player command
//	-t int      minutes decay tick (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "1s" or integer
// nanoseconds:
//
//	{
//	  "database_path": "journal.db",
//	  "backup_dir": "backups",
//	  "player_command": "mpv --no-video",
//	  "tick_interval": "1s",
//	  "progress_save_interval": "10s",
//	  "log_level": "info",
//	  "s3_bucket": "journal-backups",
//	  "s3_region": "us-east-1",
//	  "s3_endpoint": "http://127.0.0.1:9000/",
//	  "s3_access_key": "admin",
//	  "s3_secret_key": "secretpassword"
//	}
//
// S3 credentials are accepted from JSON only, never from flags.
package config
