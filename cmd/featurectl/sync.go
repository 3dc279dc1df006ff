package main

import (
	"context"
	"fmt"
	"time"

	"erp-featurestore-be/internal/bootstrap"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type pipelineFunc func(ctx context.Context) (int, error)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a feature pipeline once",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "capacity",
		Short: "Snapshot 7d/30d project capacity windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline("capacity", func(c *bootstrap.Container) pipelineFunc {
				return c.CapacitySyncService.SyncCapacity
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "forecast",
		Short: "Project next-horizon capacity from window history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline("forecast", func(c *bootstrap.Container) pipelineFunc {
				return c.CapacityForecastService.SyncForecast
			})
		},
	})

	return cmd
}

func runPipeline(name string, pick func(c *bootstrap.Container) pipelineFunc) error {
	container, err := openContainer()
	if err != nil {
		return err
	}
	defer container.Close()

	started := time.Now()
	processed, err := pick(container)(context.Background())
	if err != nil {
		return fmt.Errorf("%s sync failed: %w", name, err)
	}

	color.Green("✅ %s sync wrote %d snapshots in %s", name, processed, time.Since(started).Round(time.Millisecond))
	return nil
}
