package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Read feature snapshots",
	}

	latest := &cobra.Command{
		Use:   "latest [feature] [entity-id]",
		Short: "Show the most recent snapshot of an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := openContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			snap, err := container.FeatureStoreService.Latest(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(snap)
		},
	}

	history := &cobra.Command{
		Use:   "history [feature] [entity-id]",
		Short: "Show recent snapshots of an entity, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			container, err := openContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			series, err := container.FeatureStoreService.Timeseries(context.Background(), args[0], args[1], limit)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(series)
			}

			if len(series.Items) == 0 {
				fmt.Println("No snapshots")
				return nil
			}
			for _, snap := range series.Items {
				fmt.Printf("%s  %v\n", color.YellowString(snap.Ts.Format("2006-01-02T15:04:05.000Z07:00")), snap.Value)
			}
			return nil
		},
	}
	history.Flags().IntP("limit", "n", 0, "Maximum snapshots (0 uses the server default)")
	history.Flags().BoolP("json", "j", false, "Output as JSON")

	cmd.AddCommand(latest, history)
	return cmd
}
