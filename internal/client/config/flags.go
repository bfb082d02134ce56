package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   path to the SQLite database
//	-b string   backup directory
//	-p string   audio player command
//	-t int      decay tick in seconds
//	-l string   log level
//
// args are filtered through flagx.FilterArgs first, so -c and unrelated
// flags do not cause a parse error. Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-d", "-b", "-p", "-t", "-l"})

	fs := flag.NewFlagSet("journal", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "backup directory")
	fs.StringVar(&cfg.PlayerCommand, "p", cfg.PlayerCommand, "audio player command")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	tick := fs.Int("t", int(cfg.TickInterval.Seconds()), "minutes decay tick (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *tick > 0 {
		cfg.TickInterval = time.Duration(*tick) * time.Second
	}
}
