package main

import (
	"log"
	"os"

	"erp-featurestore-be/internal/model"
	"erp-featurestore-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, os.Getenv("GO_ENV") == "production")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate the feature store tables. projects, project_members and
	// time_entries belong to the ERP and are only read.
	log.Println("Running AutoMigrate for feature store tables...")

	models := []interface{}{
		&model.FeatureDefinition{},
		&model.FeatureSnapshot{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: comments for people browsing the schema
	postMigrationSQL := []string{
		`COMMENT ON TABLE feature_definitions IS 'Feature store registry, one row per feature name';`,
		`COMMENT ON TABLE feature_snapshots IS 'Point-in-time feature values keyed by (feature_id, entity_id, ts)';`,
	}

	if db.Dialector.Name() == "postgres" {
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("✅ Success: Feature store migration completed.")
}
