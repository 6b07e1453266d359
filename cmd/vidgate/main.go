// vidgate resolves media page URLs into directly fetchable stream locations
// and relays the bytes for cross-origin clients.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/famomatic/vidgate/internal/config"
	"github.com/famomatic/vidgate/internal/httpapi"
	"github.com/famomatic/vidgate/internal/ytdlp"
	"github.com/famomatic/vidgate/relay"
	"github.com/famomatic/vidgate/resolver"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	flagConfig  string
	flagListen  string
	flagQuality string
	flagLimit   int
)

var cfg *config.Config

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:               "vidgate",
	Short:             "Resolve media URLs into playable streams and relay them",
	PersistentPreRunE: loadConfig,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP resolution and relay server",
	RunE:  serveRun,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolve a source URL and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveRun,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for media and print the results as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (TOML)")
	serveCmd.Flags().StringVarP(&flagListen, "listen", "l", "", "Listen address (overrides config)")
	resolveCmd.Flags().StringVarP(&flagQuality, "quality", "q", "", "Quality label, e.g. 720p")
	searchCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Maximum number of results")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}

	log.SetFormatter(&logrus.TextFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return nil
}

func buildExtractor() *ytdlp.Client {
	return ytdlp.New(ytdlp.Config{
		Path:               cfg.YtDlp.Path,
		SocketTimeout:      cfg.YtDlp.SocketTimeout,
		GeoBypass:          cfg.YtDlp.GeoBypass,
		NoCheckCertificate: cfg.YtDlp.NoCheckCertificate,
	})
}

func buildResolver(extractor *ytdlp.Client) *resolver.Resolver {
	return resolver.New(extractor, resolver.Config{
		Quality:         resolver.QualityPolicy{Ceilings: cfg.Quality},
		ClientProfiles:  cfg.YtDlp.ClientProfiles,
		AlternativesCap: cfg.AlternativesCap,
		Logger:          log,
	})
}

func buildRelay() *relay.Relay {
	return relay.New(relay.Config{
		UserAgent:   cfg.Relay.UserAgent,
		Timeout:     time.Duration(cfg.Relay.TimeoutSeconds) * time.Second,
		InlineLimit: cfg.Relay.InlineLimit,
		Logger:      log,
	})
}

func serveRun(cmd *cobra.Command, args []string) error {
	extractor := buildExtractor()
	server := httpapi.NewServer(buildResolver(extractor), buildRelay(), extractor, httpapi.Config{
		PublicBaseURL:  cfg.PublicBaseURL,
		DefaultQuality: cfg.DefaultQuality,
	}, log)

	log.WithField("listen", cfg.Listen).Info("starting server")
	return http.ListenAndServe(cfg.Listen, server.Routes())
}

func resolveRun(cmd *cobra.Command, args []string) error {
	quality := flagQuality
	if quality == "" {
		quality = cfg.DefaultQuality
	}

	res, err := buildResolver(buildExtractor()).Resolve(cmd.Context(), args[0], quality)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func searchRun(cmd *cobra.Command, args []string) error {
	results, err := buildExtractor().Search(cmd.Context(), strings.Join(args, " "), flagLimit)
	if err != nil {
		return err
	}
	return printJSON(results)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
