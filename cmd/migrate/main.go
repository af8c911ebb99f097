// Command migrate creates the schema and seeds the demand zones, then exits.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"rider-fleet-backend/internal/config"
	"rider-fleet-backend/internal/database"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/zones"
)

func main() {
	zonesFile := flag.String("zones", "", "YAML file of demand zones to seed (defaults to ZONES_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if *zonesFile == "" {
		*zonesFile = cfg.ZonesFile
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Migrations applied")

	seed := zones.DefaultZones()
	if *zonesFile != "" {
		var fileZones []models.DemandZone
		if fileZones, err = zones.LoadFile(*zonesFile); err != nil {
			log.Fatalf("❌ Failed to read zones file: %v", err)
		}
		seed = fileZones
	}

	if err := database.SeedZones(ctx, db, seed); err != nil {
		log.Fatalf("❌ Zone seeding failed: %v", err)
	}
	log.Printf("✅ Migration completed successfully (%d zones available for seeding)", len(seed))
}
