package cmd

import (
	"github.com/spf13/cobra"
)

var (
	version string
	rootCmd = &cobra.Command{
		Use:   "tunnelcheck [port]",
		Short: "A diagnostic HTTP echo server for verifying TCP tunnels",
		Long: `tunnelcheck runs a small HTTP server that echoes request metadata back to
the client, so you can confirm that a TCP tunnel forwards traffic end-to-end.

GET requests return a diagnostic page embedding the timestamp, request path
and client IP; POST requests echo the body back as JSON. Point your tunnel at
the listening port and curl the public end.

Example:
  tunnelcheck 9091
  curl http://127.0.0.1:<tunnel-port>/foo
  curl -X POST -d 'test data' http://127.0.0.1:<tunnel-port>/api`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runServe,
	}
)

// SetVersion stamps the build version before Execute.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func Execute() error {
	return rootCmd.Execute()
}
