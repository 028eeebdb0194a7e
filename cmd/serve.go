package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kiso-design/intake-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		return server.New(e.Coord, e.Store, cfg.Server).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override configured listen port")
	rootCmd.AddCommand(serveCmd)
}
