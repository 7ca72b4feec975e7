package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/app"
	"github.com/zjrosen/signup/internal/availability"
	"github.com/zjrosen/signup/internal/config"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/mode/register"
	"github.com/zjrosen/signup/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	envPrefix         = "SIGNUP"
	localConfigPath   = ".signup/config.yaml"
	defaultLogPath    = "debug.log"
	tracingShutdownIn = 5 * time.Second
)

var (
	version   = "dev"
	release   = "dev" // bare version for the User-Agent header
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:     "signup",
	Short:   "Create an account from the terminal",
	Long:    `A two-step registration wizard: account details with a live username check, then favorite genres.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.signup/config.yaml or ~/.config/signup/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (path from SIGNUP_LOG, default debug.log)")
	rootCmd.PersistentFlags().String("api-url", "",
		"registration backend base URL")

	// Bind flags to viper
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

// setDefaults registers every key so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("availability.debounce", defaults.Availability.Debounce)
	v.SetDefault("availability.cache_ttl", defaults.Availability.CacheTTL)
	v.SetDefault("genres", defaults.Genres)
	v.SetDefault("toast_duration", defaults.ToastDuration)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), resolveConfigPath(cfgFile))
}

// resolveConfigPath picks the config file to read.
// Lookup order:
// 1. explicit --config path
// 2. .signup/config.yaml (current directory)
// 3. ~/.config/signup/config.yaml (user config)
//
// When none exists a default file is written at .signup/config.yaml. An
// empty result means defaults and environment only.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(localConfigPath); err == nil {
		return localConfigPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".config", "signup", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}

	// No config file found anywhere - create default at .signup/config.yaml
	if err := config.WriteDefaultConfig(localConfigPath); err != nil {
		// If write fails, just continue with defaults (no config file)
		return ""
	}
	return localConfigPath
}

// loadConfig reads path (if any) on top of the defaults and environment.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// initLogging enables the file log when --debug or SIGNUP_DEBUG is set.
// The returned cleanup is always safe to call.
func initLogging(prefix string) (func(), error) {
	if os.Getenv(envPrefix+"_DEBUG") == "" && !debugFlag {
		return func() {}, nil
	}

	logPath := os.Getenv(envPrefix + "_LOG")
	if logPath == "" {
		logPath = defaultLogPath
	}

	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Info(log.CatConfig, "Signup starting", "version", version, "logPath", logPath, "config", viper.ConfigFileUsed())

	return cleanup, nil
}

// backend is the set of long-lived collaborators shared by the commands.
type backend struct {
	client   *api.Client
	checker  *availability.RemoteChecker
	provider *tracing.Provider
}

func newBackend(c config.Config) (*backend, error) {
	tc := c.Tracing
	if tc.FilePath == "" {
		tc.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tc)
	if err != nil {
		return nil, fmt.Errorf("creating tracing provider: %w", err)
	}

	client, err := api.New(c.API.BaseURL, c.API.Timeout,
		api.WithUserAgent(userAgent()),
		api.WithTracerProvider(provider.TracerProvider()),
	)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("creating api client: %w", err)
	}

	return &backend{
		client:   client,
		checker:  availability.NewRemoteChecker(client, availability.WithCache(c.Availability.CacheTTL)),
		provider: provider,
	}, nil
}

func (b *backend) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownIn)
	defer cancel()
	if err := b.provider.Shutdown(ctx); err != nil {
		log.Warn(log.CatTrace, "Tracing shutdown failed", "error", err)
	}
}

func runApp(_ *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := initLogging("signup")
	if err != nil {
		return err
	}
	defer cleanup()

	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	zone.NewGlobal()
	defer zone.Close()

	model := app.New(app.Config{
		Register: register.Config{
			Checker:        b.checker,
			Registrar:      b.client,
			Genres:         cfg.Genres,
			Debounce:       cfg.Availability.Debounce,
			RequestTimeout: cfg.API.Timeout,
		},
		ToastDuration: cfg.ToastDuration,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the release and the full version string shown by
// --version (called from main with ldflags)
func SetVersion(rel, full string) {
	release = rel
	version = full
	rootCmd.Version = full
}

func userAgent() string {
	return "signup/" + release
}
