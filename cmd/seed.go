package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dessertly/ordersync/internal/factories"
	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seeds the live store with the catalog and sample data",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cfg.Offline {
			fmt.Fprintln(os.Stderr, "seed requires a configured live store")
			os.Exit(1)
		}

		ctx := context.Background()
		store, err := postgres.NewStore(ctx, cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to live store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := seed(ctx, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
			os.Exit(1)
		}
	},
}

func seed(ctx context.Context, store *postgres.Store, cfg *models.Config) error {
	menuItemFactory := &factories.MenuItemFactory{}
	customerFactory := &factories.CustomerFactory{}
	orderFactory := &factories.OrderFactory{}

	if err := store.Catalog().BulkCreate(ctx, menuItemFactory.FromCatalog(cfg.Catalog)); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	customers := make([]*models.Customer, cfg.SeedCustomers)
	for i := range customers {
		customers[i] = customerFactory.CreateCustomer()
		if err := store.Customers().Create(ctx, customers[i]); err != nil {
			return fmt.Errorf("failed to seed customer: %w", err)
		}
	}
	if len(customers) == 0 {
		return nil
	}

	bar := progressbar.Default(int64(cfg.SeedOrders), "seeding orders")
	for i := 0; i < cfg.SeedOrders; i++ {
		customer := customers[i%len(customers)]
		order := orderFactory.CreateOrder(customer, cfg.Catalog, cfg)

		dbID, err := store.Orders().CreateOrder(ctx, &order, customer.ID)
		if err != nil {
			return fmt.Errorf("failed to seed order: %w", err)
		}
		if err := store.Orders().CreateOrderItems(ctx, dbID, order.Items); err != nil {
			return fmt.Errorf("failed to seed order items: %w", err)
		}
		bar.Add(1)
	}
	return nil
}

func init() {
	seedCmd.Flags().Int("seed-customers", 25, "Number of sample customers")
	seedCmd.Flags().Int("seed-orders", 200, "Number of sample orders")
	bindFlags(seedCmd)
	rootCmd.AddCommand(seedCmd)
}
