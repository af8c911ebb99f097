package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rider-fleet-backend/internal/models"
)

// ZoneRepo persists demand zones
type ZoneRepo struct {
	db *sqlx.DB
}

func NewZoneRepo(db *sqlx.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

// LoadZones returns every zone in registry order
func (r *ZoneRepo) LoadZones(ctx context.Context) ([]models.DemandZone, error) {
	var zones []models.DemandZone
	query := `SELECT id, name, latitude, longitude, radius_meters, weight, is_active
	          FROM demand_zones
	          ORDER BY sort_order ASC, id ASC`
	if err := r.db.SelectContext(ctx, &zones, query); err != nil {
		return nil, fmt.Errorf("failed to load demand zones: %w", err)
	}
	return zones, nil
}

func (r *ZoneRepo) SaveWeight(ctx context.Context, zoneID string, weight int) error {
	query := `UPDATE demand_zones
	          SET weight = $2, updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, zoneID, weight)
	if err != nil {
		return fmt.Errorf("failed to update zone weight: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
