package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FranksOps/bramble"
	"github.com/FranksOps/bramble/pkg/proxy"
)

var rootCmd = &cobra.Command{
	Use:   "bramble",
	Short: "Discover related questions and featured answers from search results",
	Long: `bramble follows a search engine's own "people also ask" suggestions
outward from any starting text, producing deduplicated streams of related
questions and their featured answers.

Every flag can also be set through a config file (./bramble.yaml or
~/.config/bramble/config.yaml) or a BRAMBLE_* environment variable, e.g.
BRAMBLE_LOCALE=de.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./bramble.yaml or ~/.config/bramble/config.yaml)")
	pf.String("locale", "us", "country code sent with every query (the gl parameter)")
	pf.String("language", "", "interface language sent as the hl parameter")
	pf.Duration("timeout", 30*time.Second, "per-request timeout")
	pf.String("fingerprint", "chrome", "TLS identity: chrome, firefox, safari, random, or go")
	pf.Float64("rps", 0, "max queries per second (0 disables rate limiting)")
	pf.Float64("jitter", 0.3, "random fraction added to each rate-limit wait")
	pf.String("proxies", "", "file with proxy URLs, one per line")
	pf.Bool("cookies", true, "keep cookies across queries and seed the consent cookies")
	pf.Int("metrics-port", 0, "expose Prometheus metrics on this port (0 disables)")
	pf.String("log-level", "warn", "log verbosity: debug, info, warn, or error")

	for _, name := range []string{
		"locale", "language", "timeout", "fingerprint", "rps", "jitter",
		"proxies", "cookies", "metrics-port", "log-level",
	} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bramble")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bramble"))
		}
	}

	viper.SetEnvPrefix("BRAMBLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger at the configured level. Log output
// goes to stderr so piping query results stays clean.
func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newClient assembles the library client from the persistent settings.
func newClient(logger *slog.Logger) (*bramble.Client, error) {
	cfg := bramble.Config{
		Language:     viper.GetString("language"),
		Timeout:      viper.GetDuration("timeout"),
		UseCookieJar: viper.GetBool("cookies"),
		RPS:          viper.GetFloat64("rps"),
		Jitter:       viper.GetFloat64("jitter"),
		Fingerprint:  viper.GetString("fingerprint"),
		Logger:       logger,
	}

	if path := viper.GetString("proxies"); path != "" {
		urls, err := proxy.ReadList(path)
		if err != nil {
			return nil, err
		}
		cfg.Proxies = urls
	}

	return bramble.New(cfg)
}
