package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/dmitrijs2005/gophjournal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// set values are copied into the runtime Config.
type JsonConfig struct {
	DatabasePath         string         `json:"database_path"`
	BackupDir            string         `json:"backup_dir"`
	PlayerCommand        string         `json:"player_command"`
	TickInterval         timex.Duration `json:"tick_interval"`
	ProgressSaveInterval timex.Duration `json:"progress_save_interval"`
	LogLevel             string         `json:"log_level"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3Endpoint           string         `json:"s3_endpoint"`
	S3AccessKey          string         `json:"s3_access_key"`
	S3SecretKey          string         `json:"s3_secret_key"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named by
// -c/-config. Without either flag it does nothing. Read and decode errors
// panic; a broken config file is a startup error.
func parseJson(cfg *Config, args []string) {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.BackupDir, jc.BackupDir)
	setString(&cfg.PlayerCommand, jc.PlayerCommand)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.TickInterval.Duration > 0 {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	if jc.ProgressSaveInterval.Duration > 0 {
		cfg.ProgressSaveInterval = jc.ProgressSaveInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
