package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/demeter/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token derivation secret
//	-w int      history window, days
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The window
// flag is accepted as an integer number of days and converted to a
// time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "token secret")

	historyWindowDays := fs.Int("w", int(config.HistoryWindow.Hours()/24), "history window (in days)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.HistoryWindow = time.Duration(*historyWindowDays) * 24 * time.Hour
}
