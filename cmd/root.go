package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tommyrac/Dawn/internal/app"
	"github.com/tommyrac/Dawn/internal/config"
	"github.com/tommyrac/Dawn/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the room grid.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".dawn/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	configPath string
	configErr  error
	v          *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "dawn",
	Short: "Artist House room browser",
	Long: `A terminal room browser for the Artist House theme.

Rooms, the navigation menu and theme editor notifications all travel through
an in-process event registry. The last delivered event is shown in the status bar.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .dawn/config.yaml, then ~/.config/dawn/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"enable debug logging (also DAWN_DEBUG)")
	rootCmd.PersistentFlags().String("log-file", "",
		"debug log file (default: debug.log)")
}

func initConfig() {
	v = viper.New()
	config.SetDefaults(v)
	v.SetDefault("debug", false)

	// DAWN_DEBUG, DAWN_THEME_DESIGN_MODE, DAWN_LOG_LEVEL, ...
	v.SetEnvPrefix("DAWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))

	configPath = resolveConfigPath(cfgFile)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		configErr = fmt.Errorf("reading config %s: %w", configPath, err)
		return
	}

	cfg, configErr = config.Decode(v)
	if configErr != nil {
		configErr = fmt.Errorf("invalid config %s: %w", configPath, configErr)
	}
}

// resolveConfigPath picks the config file. Lookup order:
//  1. --config
//  2. .dawn/config.yaml (current directory)
//  3. ~/.config/dawn/config.yaml, created with defaults when missing
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(localConfigPath); err == nil {
		return localConfigPath
	}

	userPath := filepath.Join(config.DefaultConfigDir(), "config.yaml")
	if _, err := os.Stat(userPath); errors.Is(err, os.ErrNotExist) {
		// If write fails, just continue with defaults
		_ = config.WriteDefaultConfig(userPath)
	}
	return userPath
}

// setupLogging installs the logger when debug logging is on. Terminal UI
// sessions log to a file, the other commands to w.
func setupLogging(w io.Writer, toFile bool) (func(), error) {
	if !v.GetBool("debug") {
		return func() {}, nil
	}

	level := log.ParseLevel(cfg.Log.Level)
	if !toFile {
		log.InitWriter(w, level)
		return log.Reset, nil
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, "dawn")
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(level)
	log.Info(log.CatConfig, "Dawn starting", "config", configPath, "logPath", logPath)
	return cleanup, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	cleanup, err := setupLogging(cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer cleanup()

	services, err := app.NewServices(cfg, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	if err := services.WatchConfig(context.Background()); err != nil {
		// The browser works without live reload
		log.ErrorErr(log.CatWatcher, "Config watch unavailable", err, "path", configPath)
	}

	// Room cards and menu entries are mouse zones
	zone.NewGlobal()

	model, err := app.New(services)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
