package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/textline/internal/bandwidth"
	"github.com/soyeahso/textline/internal/broker"
	"github.com/soyeahso/textline/internal/config"
	"github.com/soyeahso/textline/internal/domain"
	"github.com/soyeahso/textline/internal/gateway"
	"github.com/soyeahso/textline/internal/logging"
	"github.com/soyeahso/textline/internal/relay"
	"github.com/soyeahso/textline/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Textline server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// The flag wins over the config file for log level.
			if logLevel == "" && cfg.Logging.Level != "" {
				log = logging.New(nil, cfg.Logging.Level, cfg.Logging.Style)
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("preparing data directories: %w", err)
			}

			// Initialize session store (SQLite or in-memory)
			ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
			var sessions store.SessionStore
			if cfg.Session.Store == "sqlite" {
				dbPath := filepath.Join(paths.Data, "textline.db")
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				sessions = store.NewSQLiteSessionStore(db, ttl)
				log.Info().Str("path", dbPath).Msg("using SQLite session store")
			} else {
				sessions = store.NewMemorySessionStore(ttl)
				log.Info().Msg("using in-memory session store")
			}

			bus := broker.NewMemoryBroker(log)
			defer bus.Close()

			defaults := domain.Credentials{
				UserID:    cfg.Bandwidth.UserID,
				APIToken:  cfg.Bandwidth.APIToken,
				APISecret: cfg.Bandwidth.APISecret,
			}
			factory := bandwidth.NewFactory(defaults, cfg.Bandwidth.BaseURL, log)

			rly := relay.New(sessions, bus, func(creds domain.Credentials) relay.Provider {
				return factory(creds)
			}, relay.Options{
				ApplicationName: cfg.Bandwidth.ApplicationName,
				DefaultAreaCode: cfg.Bandwidth.AreaCode,
				CallbackBaseURL: cfg.Bandwidth.CallbackBaseURL,
			}, log)

			srv := gateway.New(cfg.Gateway, rly, sessions, log)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
