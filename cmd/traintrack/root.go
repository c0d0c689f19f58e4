package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/traintrack-sc/athlete/internal/client"
	"github.com/traintrack-sc/athlete/internal/config"
	"github.com/traintrack-sc/athlete/internal/connectivity"
	"github.com/traintrack-sc/athlete/internal/logger"
	"github.com/traintrack-sc/athlete/internal/session"
	"github.com/traintrack-sc/athlete/internal/version"
)

// app holds the components shared by the subcommands. It is populated before any subcommand runs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	sessions *session.FileStore
	client   *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var apiBaseURL string

	cmd := &cobra.Command{
		Use:           "traintrack",
		Short:         "TrainTrack athlete API client",
		Long:          `Command line client for the TrainTrack athlete API`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(apiBaseURL)
		},
	}

	cmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", "", "override API_BASE_URL")

	cmd.AddCommand(
		newRequestCmd(a),
		newSessionCmd(a),
		newConfigCmd(a),
		newFeaturesCmd(a),
	)

	return cmd
}

func (a *app) init(apiBaseURL string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid --api-base-url: %w", err)
		}
	}

	a.cfg = cfg
	a.logger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment, cfg.Debug)
	a.sessions = session.NewFileStore(cfg.SessionFile, cfg.Session, nil)

	checker, err := connectivity.NewChecker(cfg.APIBaseURL, cfg.OnlineProbeTTL, nil, nil)
	if err != nil {
		return err
	}

	a.client = client.New(*cfg, a.sessions,
		client.WithLogger(a.logger),
		client.WithConnectivityChecker(checker),
		client.WithAuthFailureHandler(a.handleAuthFailure),
	)

	a.logger.Debug("configuration loaded",
		slog.String("app", cfg.AppName),
		slog.String("app_version", cfg.AppVersion),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("session_file", cfg.SessionFile),
	)
	return nil
}

// handleAuthFailure drops the stored session after the API rejects it
func (a *app) handleAuthFailure() {
	if err := a.sessions.Clear(); err != nil {
		a.logger.Warn("could not clear session after authentication failure", slog.String("error", err.Error()))
		return
	}
	a.logger.Info("session cleared after authentication failure")
}
