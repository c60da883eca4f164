package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dessertly/ordersync/internal/export"
	"github.com/dessertly/ordersync/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the merged timeline to the configured sink",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		eng, cleanup, err := buildEngine(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		orders, err := eng.Refresh(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error refreshing orders: %v\n", err)
			os.Exit(1)
		}

		sink, err := export.NewSink(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		for _, order := range orders {
			if err := sink.WriteOrder(order); err != nil {
				sink.Close()
				fmt.Fprintf(os.Stderr, "Error writing order: %v\n", err)
				os.Exit(1)
			}
		}
		if err := sink.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing sink: %v\n", err)
			os.Exit(1)
		}
	},
}

func bindFlags(cmd *cobra.Command) {
	viper.BindPFlags(cmd.Flags())
}

func init() {
	exportCmd.Flags().String("output-folder", "timeline", "Folder under the output path")
	exportCmd.Flags().String("kafka-topic", "order_timeline", "Kafka topic for the timeline")
	bindFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
