package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"smartlib/internal/bootstrap"
	"smartlib/internal/platform/config"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/logger"
)

const exitAuth = 2

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, apperrors.ErrAuthFailure) {
			os.Exit(exitAuth)
		}
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	dataDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "smartlib",
		Short:         "Smart library reading tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory for credentials, index and journal")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newRegisterCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newWhoAmICmd(flags))
	root.AddCommand(newBooksCmd(flags))
	root.AddCommand(newSearchCmd(flags))
	root.AddCommand(newRecommendCmd(flags))
	root.AddCommand(newLibraryCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newReadCmd(flags))
	root.AddCommand(newFinishCmd(flags))
	root.AddCommand(newDropCmd(flags))
	root.AddCommand(newDashboardCmd(flags))
	root.AddCommand(newGoalsCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

// loadApp wires the application. Full-screen commands log to a file so the screen stays intact;
// everything else logs to stderr.
func loadApp(flags *globalFlags, fullScreen bool) (*bootstrap.App, func(), error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	level := logger.ParseLevel(cfg.Log.Level)
	log := logger.New(logger.Config{Format: cfg.Log.Format, Level: level})
	var logCloser io.Closer
	if fullScreen {
		log, logCloser, err = logger.NewFile(cfg.LogPath(), cfg.Log.Format, level)
		if err != nil {
			return nil, nil, err
		}
	}
	app, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		if logCloser != nil {
			_ = logCloser.Close()
		}
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Warn("close app", "error", err)
		}
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}
	log.Debug("app ready", slog.String("base_url", cfg.BaseURL), slog.String("data_dir", cfg.DataDir))
	return app, cleanup, nil
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the smartlib terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, true)
			if err != nil {
				return err
			}
			defer cleanup()
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(flags *globalFlags) *cobra.Command {
	var username, password string
	login := &cobra.Command{
		Use:   "login --username <name>",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(username) == "" {
				return fmt.Errorf("--username is required")
			}
			secret, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			if _, err := app.AuthCLI.Login(cmd.Context(), username, secret); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", username)
			return nil
		},
	}
	login.Flags().StringVar(&username, "username", "", "account username")
	login.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return login
}

func newRegisterCmd(flags *globalFlags) *cobra.Command {
	var username, email, password string
	register := &cobra.Command{
		Use:   "register --username <name> --email <email>",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			if _, err := app.AuthCLI.Register(cmd.Context(), username, email, secret); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered and logged in as %s\n", username)
			return nil
		},
	}
	register.Flags().StringVar(&username, "username", "", "account username")
	register.Flags().StringVar(&email, "email", "", "account email")
	register.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return register
}

func newLogoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := app.AuthCLI.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoAmICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer cleanup()
			me, err := app.AuthCLI.WhoAmI(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "username: %s\nemail: %s\n", me.Username, me.Email)
			return nil
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration file commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config file if none exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := flags.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			created, err := config.WriteDefault(path)
			if err != nil {
				return err
			}
			if !created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", path)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			source := cfg.Path
			if source == "" {
				source = "defaults"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "source: %s\nbase_url: %s\ndata_dir: %s\nhttp_timeout: %s\ncache: %t\nlog: %s/%s\njournal: %t %s\n",
				source, cfg.BaseURL, cfg.DataDir, cfg.HTTPTimeout, cfg.Cache.Enabled, cfg.Log.Level, cfg.Log.Format, cfg.Journal.Enabled, cfg.JournalDir())
			return nil
		},
	})
	return cfgCmd
}

func passwordOrPrompt(cmd *cobra.Command, password string) (string, error) {
	if password != "" {
		return password, nil
	}
	fd := os.Stdin.Fd()
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(secret), nil
}
