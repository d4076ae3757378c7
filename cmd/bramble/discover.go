package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FranksOps/bramble/internal/metrics"
	"github.com/FranksOps/bramble/internal/pipeline"
	"github.com/FranksOps/bramble/internal/report"
	"github.com/FranksOps/bramble/internal/storage"
	"github.com/FranksOps/bramble/internal/storage/csvbackend"
	"github.com/FranksOps/bramble/internal/storage/jsonbackend"
	"github.com/FranksOps/bramble/internal/storage/postgres"
	"github.com/FranksOps/bramble/internal/storage/sqlite"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [seeds...]",
	Short: "Run a full discovery session and persist the results",
	Long: `Discover collects related questions for each seed, fetches the answer
for every question found, classifies them, and writes one record per
question to the chosen storage backend. It finishes with a summary
report of the session.

Individual answer pages that fail to parse are skipped; a block
verdict from the engine aborts the session, since every further
request would meet the same wall.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().Int("max", 20, "stop collecting once a seed has produced more than this many questions")
	discoverCmd.Flags().String("storage", "json", "storage backend: sqlite, postgres, json, or csv")
	discoverCmd.Flags().String("dsn", "", "DSN for the sqlite or postgres backend")
	discoverCmd.Flags().String("out", "bramble-records", "output path for the json and csv backends (extension added)")
	discoverCmd.Flags().String("report", "text", "summary format: text, json, or html")
	discoverCmd.Flags().String("report-out", "", "write the summary to this file instead of stdout")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if port := viper.GetInt("metrics-port"); port > 0 {
		srv := metrics.Start(port)
		defer func() { _ = srv.Stop(cmd.Context()) }()
		logger.Info("metrics exposed", "port", port)
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	backend, err := openBackend(cmd)
	if err != nil {
		return err
	}
	defer backend.Close()

	p, err := pipeline.New(pipeline.Config{
		Client:  client,
		Backend: backend,
		Locale:  viper.GetString("locale"),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	max, _ := cmd.Flags().GetInt("max")
	summary, err := p.Run(cmd.Context(), args, max)
	if err != nil {
		return err
	}

	return writeSummary(cmd, summary)
}

func openBackend(cmd *cobra.Command) (storage.Backend, error) {
	kind, _ := cmd.Flags().GetString("storage")
	dsn, _ := cmd.Flags().GetString("dsn")
	out, _ := cmd.Flags().GetString("out")

	switch kind {
	case "sqlite":
		if dsn == "" {
			dsn = "bramble.db"
		}
		return sqlite.New(dsn)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("the postgres backend requires --dsn")
		}
		return postgres.New(cmd.Context(), dsn)
	case "json":
		return jsonbackend.New(out + ".json")
	case "csv":
		return csvbackend.New(out + ".csv")
	default:
		return nil, fmt.Errorf("unknown storage backend %q (sqlite, postgres, json, csv)", kind)
	}
}

func writeSummary(cmd *cobra.Command, summary report.Summary) error {
	format, _ := cmd.Flags().GetString("report")
	path, _ := cmd.Flags().GetString("report-out")

	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "text":
		return report.WriteText(w, summary)
	case "json":
		return report.WriteJSON(w, summary)
	case "html":
		return report.WriteHTML(w, summary)
	default:
		return fmt.Errorf("unknown report format %q (text, json, html)", format)
	}
}
