package main

import (
	"encoding/json"
	"fmt"
	"os"

	"erp-featurestore-be/internal/bootstrap"
	"erp-featurestore-be/internal/config"
	"erp-featurestore-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "featurectl",
		Short:         "featurectl - operate the ERP feature store",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(definitionsCmd())
	rootCmd.AddCommand(snapshotsCmd())

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// openContainer wires the same services as the REST server, without background consumers.
func openContainer() (*bootstrap.Container, error) {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return bootstrap.NewContainer(db, cfg), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
