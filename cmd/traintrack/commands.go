package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/traintrack-sc/athlete/internal/client"
	"github.com/traintrack-sc/athlete/internal/config"
	"github.com/traintrack-sc/athlete/internal/session"
)

func newRequestCmd(a *app) *cobra.Command {
	var (
		method  string
		headers []string
		data    string
		query   []string
	)

	cmd := &cobra.Command{
		Use:   "request <endpoint>",
		Short: "Call an API endpoint and print the JSON response",
		Example: `  traintrack request /athletes/me
  traintrack request workouts -X POST -d '{"distance_km":5}'
  traintrack request workouts -q week=3 -H 'X-Client-Device: watch'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &client.RequestOptions{
				Method: strings.ToUpper(method),
			}

			if len(headers) > 0 {
				opts.Headers = make(map[string]string, len(headers))
				for _, h := range headers {
					name, value, ok := strings.Cut(h, ":")
					if !ok || strings.TrimSpace(name) == "" {
						return fmt.Errorf("invalid header %q, expected 'Name: value'", h)
					}
					opts.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
				}
			}

			if len(query) > 0 {
				opts.Query = url.Values{}
				for _, q := range query {
					key, value, ok := strings.Cut(q, "=")
					if !ok || key == "" {
						return fmt.Errorf("invalid query parameter %q, expected key=value", q)
					}
					opts.Query.Add(key, value)
				}
			}

			if cmd.Flags().Changed("data") {
				body, err := requestBody(data, cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.Body = body
			}

			res, err := a.client.Request(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "", "HTTP method (default GET)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra request header, 'Name: value' (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body, or - to read it from stdin")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter, key=value (repeatable)")

	return cmd
}

// requestBody returns the body for the --data flag
func requestBody(data string, stdin io.Reader) (io.Reader, error) {
	if data != "-" {
		return strings.NewReader(data), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading request body from stdin: %w", err)
	}
	return bytes.NewReader(b), nil
}

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored API session",
	}

	var rememberMe bool
	setCmd := &cobra.Command{
		Use:   "set <token>",
		Short: "Store a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Save(args[0], rememberMe)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session saved, expires %s\n", sess.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	setCmd.Flags().BoolVar(&rememberMe, "remember", false, "keep the session for SESSION_REMEMBER_ME_DAYS days instead of SESSION_DEFAULT_TIMEOUT_HOURS hours")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sess == nil {
				fmt.Fprintln(out, "no session")
				return nil
			}

			now := time.Now()
			state := "active"
			if sess.Expired(now) {
				state = "expired"
			}
			fmt.Fprintf(out, "session:        %s\n", state)
			fmt.Fprintf(out, "remember me:    %t\n", sess.RememberMe)
			fmt.Fprintf(out, "created:        %s\n", sess.CreatedAt.Local().Format(time.RFC1123))
			fmt.Fprintf(out, "expires:        %s\n", sess.ExpiresAt.Local().Format(time.RFC1123))
			fmt.Fprintf(out, "token status:   %s\n", session.CheckTokenStatus(sess.Token, now))
			if exp, ok := session.TokenExpiry(sess.Token); ok {
				fmt.Fprintf(out, "token expires:  %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd, statusCmd)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := configView{
				Environment:    a.cfg.Environment,
				LogLevel:       a.cfg.LogLevel,
				APIBaseURL:     a.cfg.APIBaseURL,
				AppName:        a.cfg.AppName,
				AppVersion:     a.cfg.AppVersion,
				Features:       a.cfg.Features.Map(),
				Session:        sessionView(a.cfg.Session),
				Debug:          a.cfg.Debug,
				LogAPICalls:    a.cfg.LogAPICalls,
				SessionFile:    a.cfg.SessionFile,
				HTTPTimeout:    a.cfg.HTTPTimeout.String(),
				OnlineProbeTTL: a.cfg.OnlineProbeTTL.String(),
			}

			data, err := json.Marshal(view)
			if err != nil {
				return fmt.Errorf("marshaling configuration: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), data)
		},
	}
}

func newFeaturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the feature flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.FeatureNames {
				enabled, _ := a.cfg.Features.Enabled(name)
				state := "off"
				if enabled {
					state = "on"
				}
				fmt.Fprintf(out, "%-30s %s\n", name, state)
			}
			return nil
		},
	}
}

type configView struct {
	Environment    string          `json:"environment"`
	LogLevel       string          `json:"log_level"`
	APIBaseURL     string          `json:"api_base_url"`
	AppName        string          `json:"app_name"`
	AppVersion     string          `json:"app_version"`
	Features       map[string]bool `json:"features"`
	Session        sessionView     `json:"session"`
	Debug          bool            `json:"debug"`
	LogAPICalls    bool            `json:"log_api_calls"`
	SessionFile    string          `json:"session_file"`
	HTTPTimeout    string          `json:"http_timeout"`
	OnlineProbeTTL string          `json:"online_probe_ttl"`
}

type sessionView struct {
	RememberMeDays      int `json:"remember_me_days"`
	DefaultTimeoutHours int `json:"default_timeout_hours"`
}

// writeJSON pretty prints a JSON document followed by a newline
func writeJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
