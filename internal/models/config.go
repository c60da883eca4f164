package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Offline      bool           `mapstructure:"offline"` // no live store configured
	Database     DatabaseConfig `mapstructure:"database"`
	BulkFilePath string         `mapstructure:"bulk_file_path"` // local path or s3://bucket/key

	TaxRate     float64           `mapstructure:"tax_rate"`
	BulkIDSeed  string            `mapstructure:"bulk_id_seed"` // prefix for bulk db ids
	OutletCodes map[string]string `mapstructure:"outlet_codes"`

	Catalog       []MenuItem     `mapstructure:"catalog"`
	DiscountCodes []DiscountCode `mapstructure:"discount_codes"`

	// Export settings
	OutputFormat      string             `mapstructure:"output_format"` // console, csv, json, parquet
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // local or cloud
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	KafkaTopic        string             `mapstructure:"kafka_topic"`

	// Seed settings
	SeedCustomers int       `mapstructure:"seed_customers"`
	SeedOrders    int       `mapstructure:"seed_orders"`
	SeedStartDate time.Time `mapstructure:"seed_start_date"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv()

	viper.SetDefault("tax_rate", 0.10)
	viper.SetDefault("bulk_id_seed", "bulk")
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("kafka_topic", "order_timeline")
	viper.SetDefault("seed_start_date", time.Now().AddDate(0, -1, 0).Format(time.RFC3339))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if len(config.OutletCodes) == 0 {
		config.OutletCodes = DefaultOutletCodes()
	}
	if len(config.Catalog) == 0 {
		config.Catalog = DefaultCatalog()
	}

	return &config, nil
}

// CatalogByName indexes the configured catalog by item name, the key the
// bulk file uses to reference items.
func (cfg *Config) CatalogByName() map[string]MenuItem {
	catalog := make(map[string]MenuItem, len(cfg.Catalog))
	for _, item := range cfg.Catalog {
		catalog[item.Name] = item
	}
	return catalog
}

func (cfg *Config) LoadCatalogData(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Read()

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		price, _ := strconv.ParseFloat(fields[2], 64)
		item := MenuItem{
			ID:       fields[0],
			Name:     fields[1],
			Price:    price,
			Category: fields[3],
		}
		if len(fields) > 4 {
			item.Description = fields[4]
		}
		cfg.Catalog = append(cfg.Catalog, item)
	}

	return nil
}

func (cfg *Config) LoadDiscountCodeData(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Read()

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		value, _ := strconv.ParseFloat(fields[2], 64)
		code := DiscountCode{
			Code:  fields[0],
			Type:  fields[1],
			Value: value,
		}
		if len(fields) > 3 {
			code.Description = fields[3]
		}
		cfg.DiscountCodes = append(cfg.DiscountCodes, code)
	}

	return nil
}

// DefaultOutletCodes maps the two known outlet labels to the short codes
// used in bulk order display ids.
func DefaultOutletCodes() map[string]string {
	return map[string]string{
		"Kondapur": "KON",
		"Madhapur": "MAD",
	}
}

// DefaultCatalog is the built-in menu used when the config supplies none.
func DefaultCatalog() []MenuItem {
	return []MenuItem{
		{ID: "bsb-almond", Name: "Almond Basbousa", Price: 299, Category: "Basbousa", Description: "Semolina cake soaked in syrup, topped with almonds"},
		{ID: "bsb-cashew", Name: "Cashew Basbousa", Price: 299, Category: "Basbousa", Description: "Semolina cake soaked in syrup, topped with cashews"},
		{ID: "bsb-classic", Name: "Classic Basbousa", Price: 249, Category: "Basbousa", Description: "The original semolina and coconut cake"},
		{ID: "bsb-pista", Name: "Pista Basbousa", Price: 329, Category: "Basbousa", Description: "Semolina cake with a pistachio crust"},
		{ID: "kun-classic", Name: "Classic Kunafa", Price: 349, Category: "Kunafa", Description: "Shredded pastry with molten cheese"},
		{ID: "kun-mango", Name: "Mango Kunafa", Price: 399, Category: "Kunafa", Description: "Seasonal mango cream kunafa"},
		{ID: "bak-mixed", Name: "Mixed Baklava Box", Price: 449, Category: "Baklava", Description: "Assorted baklava, 12 pieces"},
		{ID: "drk-qahwa", Name: "Arabic Qahwa", Price: 99, Category: "Drinks", Description: "Cardamom coffee, served hot"},
	}
}
