// Command gkctl inspects the daily GK schedule offline.
package main

import (
	"os"

	"gk_notification_bot/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
