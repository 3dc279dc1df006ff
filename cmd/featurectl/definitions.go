package main

import (
	"context"
	"fmt"
	"os"

	"erp-featurestore-be/internal/dto"
	"erp-featurestore-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func definitionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "definitions",
		Aliases: []string{"defs"},
		Short:   "Inspect and register feature definitions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered feature definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := openContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			entityType, _ := cmd.Flags().GetString("entity")
			defs, err := container.FeatureStoreService.ListDefinitions(context.Background(), entityType)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				return printJSON(defs)
			}

			if len(defs) == 0 {
				fmt.Println("No feature definitions registered")
				return nil
			}
			for _, def := range defs {
				fmt.Printf("%-32s %-12s v%-3d %s\n", color.CyanString(def.Name), def.Entity, def.Version, def.Id)
			}
			return nil
		},
	}
	list.Flags().BoolP("json", "j", false, "Output as JSON")
	list.Flags().StringP("entity", "e", "", "Only definitions for this entity type")

	apply := &cobra.Command{
		Use:   "apply",
		Short: "Register every definition in a YAML manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			manifest, err := loadManifest(path)
			if err != nil {
				return err
			}

			container, err := openContainer()
			if err != nil {
				return err
			}
			defer container.Close()

			for i := range manifest.Definitions {
				req := manifest.Definitions[i]
				def, err := container.FeatureStoreService.RegisterDefinition(context.Background(), &req)
				if err != nil {
					return fmt.Errorf("register %q: %w", req.Name, err)
				}
				color.Green("✔ %s (v%d) %s", def.Name, def.Version, def.Id)
			}
			return nil
		},
	}
	apply.Flags().StringP("file", "f", "", "Manifest path")
	_ = apply.MarkFlagRequired("file")

	cmd.AddCommand(list, apply)
	return cmd
}

func loadManifest(path string) (*dto.FeatureManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return parseManifest(raw)
}

func parseManifest(raw []byte) (*dto.FeatureManifest, error) {
	var manifest dto.FeatureManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(manifest.Definitions) == 0 {
		return nil, fmt.Errorf("manifest has no definitions")
	}
	if err := serverutils.ValidateRequest(manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}
