package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tempoapp/tempo/internal/auth"
	"github.com/tempoapp/tempo/internal/config"
	"github.com/tempoapp/tempo/internal/sqlitedb"
	"github.com/tempoapp/tempo/server"
)

var serveFlags struct {
	configPath string
	addr       string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tempo API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "tempo.toml", "path to the configuration file")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (overrides the configuration file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveFlags.configPath)
	if err != nil {
		return err
	}
	if serveFlags.addr != "" {
		cfg.Server.Addr = serveFlags.addr
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required: set auth.secret in %s or %s", serveFlags.configPath, config.EnvSecret)
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Server.LogLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out: os.Stderr, TimeFormat: "2006-01-02_15:04:05",
	}).Level(level).With().Timestamp().Logger()

	db, err := sqlitedb.Open(cfg.Server.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.TokenTTL())
	if err != nil {
		return err
	}

	srv, err := server.NewServer(server.Options{DB: db, Issuer: issuer, Logger: logger})
	if err != nil {
		return err
	}
	return srv.Serve(cfg.Server.Addr)
}
