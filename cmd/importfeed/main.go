// importfeed downloads one BIP feed and stores its records, printing the import result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"central-lost-found/backend/internal/config"
	"central-lost-found/backend/internal/db"
	"central-lost-found/backend/internal/events"
	"central-lost-found/backend/internal/feed"
	"central-lost-found/backend/internal/item/repository"
	"central-lost-found/backend/internal/logger"
)

var timeout time.Duration

// rootCmd imports a single feed URL.
var rootCmd = &cobra.Command{
	Use:   "importfeed <url>",
	Short: "Import found-item records from an RSS, Atom or BIP XML feed",
	Long: `Download the feed at <url>, store every record as a found item, and print
the import result (imported count, ids, per-record failures, detected dialect).

Uses DATABASE_URL and, when set, KAFKA_BROKERS for item events.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runImport,
}

func init() {
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall time limit for the import")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	var publisher events.Publisher
	if p := events.NewKafkaPublisher(cfg.KafkaBrokersList(), cfg.ItemEventsTopic); p != nil {
		publisher = p
		defer func() {
			if !events.Drain(events.ShutdownDrainDuration) {
				zl.Warn("item events still in flight at exit")
			}
			_ = p.Close()
		}()
	}

	fetcher := feed.NewFetcher(cfg.FeedFetchTimeout(), cfg.FeedMaxBytes)
	defer fetcher.Close()

	importer := feed.NewImporter(fetcher, repository.NewPostgresRepository(conn), publisher, nil, zl)
	res, err := importer.Import(ctx, args[0])
	if err != nil {
		return err
	}
	zl.Info("import finished",
		zap.Int("imported", res.ImportedCount),
		zap.Int("failed", len(res.Failures)),
		zap.String("dialect", string(res.Dialect)),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
