package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"rider-fleet-backend/internal/models"
)

// SeedZones fills demand_zones on first start. An existing zone set is left alone.
func SeedZones(ctx context.Context, db *sqlx.DB, zones []models.DemandZone) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM demand_zones"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Demand zones already seeded, skipping...")
		return nil
	}

	log.Printf("🌱 Seeding %d demand zones...", len(zones))

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO demand_zones (id, name, latitude, longitude, radius_meters, weight, is_active, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, z := range zones {
		_, err := tx.ExecContext(ctx, query,
			z.ID, z.Name, z.Latitude, z.Longitude, z.RadiusMeters,
			models.ClampWeight(z.Weight), z.Active, i,
		)
		if err != nil {
			return fmt.Errorf("failed to seed zone %s: %w", z.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit zone seed: %w", err)
	}

	log.Printf("✅ Seeded %d demand zones", len(zones))
	return nil
}
