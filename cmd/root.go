package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dessertly/ordersync/internal/bulk"
	"github.com/dessertly/ordersync/internal/engine"
	"github.com/dessertly/ordersync/internal/export"
	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
	"github.com/dessertly/ordersync/internal/repositories/memory"
	"github.com/dessertly/ordersync/internal/repositories/postgres"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ordersync",
	Short: "Reconciles live-store and historical bulk orders into one timeline",
	Long:  `ordersync merges orders from the live transactional store with the historical bulk export into a single, time-ordered, deduplicated view, and prints it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		eng, cleanup, err := buildEngine(context.Background(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		orders, err := eng.Refresh(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing orders: %v\n", err)
			os.Exit(1)
		}

		sink := &export.ConsoleOutput{}
		for _, order := range orders {
			if err := sink.WriteOrder(order); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	},
}

// buildEngine wires the engine against the configured backing store: the
// Postgres live store, or the in-memory adapter in offline mode.
func buildEngine(ctx context.Context, cfg *models.Config) (*engine.Engine, func(), error) {
	var store repositories.Store
	cleanup := func() {}

	if cfg.Offline {
		store = memory.NewStore()
	} else {
		pg, err := postgres.NewStore(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store = pg
		cleanup = pg.Close
	}

	source := bulk.NewSource(cfg.BulkFilePath, cfg.CloudStorage.Region)
	parser := bulk.NewParser(cfg)
	return engine.New(store, source, parser), cleanup, nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().Bool("offline", false, "Run without a live store (in-memory only)")
	rootCmd.PersistentFlags().String("bulk-file-path", "examples/historical_orders.csv", "Historical bulk file (local path or s3://bucket/key)")
	rootCmd.PersistentFlags().Float64("tax-rate", 0.10, "Tax rate applied to bulk-parsed orders")
	rootCmd.Flags().String("output-format", "console", "Output format: console, csv, json, parquet")
	rootCmd.Flags().String("output-path", "", "Output directory for file formats")
	rootCmd.Flags().Bool("kafka-enabled", false, "Publish the timeline to Kafka")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
