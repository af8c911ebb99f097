package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rider-fleet-backend/internal/tracking"
	"rider-fleet-backend/internal/zones"
	"rider-fleet-backend/pkg/utils"
)

// GetZoneStatus returns live pressure and color for every demand zone
func GetZoneStatus(registry *zones.Registry, tracker *tracking.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		positions := tracker.Positions()
		status := registry.Status(positions)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"total_riders": len(positions),
			"zones":        status,
		})
	}
}

// UpdateZoneWeight sets a zone's priority weight, clamped to [1,5].
// The weight comes from a {"weight": n} body or the ?weight= query.
func UpdateZoneWeight(registry *zones.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "id")
		log.Printf("⚖️ REQUEST: PUT /api/zones/%s/weight", zoneID)

		weight, err := weightFromRequest(r)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		zone, err := registry.UpdateWeight(r.Context(), zoneID, weight)
		if err != nil {
			if errors.Is(err, zones.ErrZoneNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Zone not found")
				return
			}
			log.Printf("❌ Error updating weight for zone %s: %v", zoneID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update zone weight")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"zone":    zone,
		})
	}
}

func weightFromRequest(r *http.Request) (int, error) {
	if q := r.URL.Query().Get("weight"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return 0, errors.New("weight must be an integer")
		}
		return n, nil
	}

	var req struct {
		Weight *int `json:"weight"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		return 0, err
	}
	if req.Weight == nil {
		return 0, errors.New("weight is required")
	}
	return *req.Weight, nil
}
