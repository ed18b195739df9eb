// Package serve handles the HTTP API command
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/config"
	"eerr/eerr-dashboard/internal/server"
)

var port int

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the statement API over HTTP",
	Long: `Start the HTTP API: workbook uploads, ledger imports, manual values and
statement queries and exports. Callers identify themselves with the
X-User-ID header.

Example:
  eerr serve --port 8080 --db data/eerr.db`,
	Run: serveFunc,
}

func init() {
	Cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default from config)")
}

func serveFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()

	srv, err := server.New(root.GetContainer())
	if err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, Addr(root.GetConfig(), port)); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

// Addr is the listen address: the flag port when set, else the configured one.
func Addr(cfg *config.Config, flagPort int) string {
	p := flagPort
	if p == 0 && cfg != nil {
		p = cfg.Server.Port
	}
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf(":%d", p)
}
