package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/ports"
	"rider-fleet-backend/internal/reports"
	"rider-fleet-backend/internal/tracking"
	"rider-fleet-backend/pkg/utils"
)

const (
	defaultNearbyRadius = 1000.0
	maxNearbyRadius     = 50000.0
	nearbyLimit         = 50
)

// ConnectionChecker reports whether a rider has a live socket
type ConnectionChecker interface {
	IsConnected(id string) bool
}

// IngestLocation accepts a {"lat","lon"} sample over HTTP for riders
// without a socket. Alerts that fired are returned in the response.
func IngestLocation(engine *tracking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID := chi.URLParam(r, "riderID")

		var req struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		}
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Lat == nil || req.Lon == nil {
			utils.RespondError(w, http.StatusBadRequest, "lat and lon are required")
			return
		}

		alerts, err := engine.HandleSample(r.Context(), riderID, *req.Lat, *req.Lon)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if alerts == nil {
			alerts = []tracking.Alert{}
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"alerts":  alerts,
		})
	}
}

// GetLiveRiders returns every tracked rider's last known position
func GetLiveRiders(tracker *tracking.Tracker, conns ConnectionChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := tracker.Snapshot()

		riders := make([]models.RiderPosition, 0, len(snapshot))
		for id, s := range snapshot {
			riders = append(riders, models.RiderPosition{
				RiderID:        id,
				Latitude:       s.Lat,
				Longitude:      s.Lon,
				LastMoveTime:   s.LastMoveTime,
				LastUpdateTime: s.LastUpdateTime,
				Connected:      conns.IsConnected(id),
			})
		}
		sort.Slice(riders, func(i, j int) bool { return riders[i].RiderID < riders[j].RiderID })

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   len(riders),
			"riders":  riders,
		})
	}
}

// GetNearbyRiders queries the live position cache around ?lat=&lon=&radius=
func GetNearbyRiders(live ports.LivePositionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if live == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Live position cache is not configured")
			return
		}

		q := r.URL.Query()
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil {
			utils.RespondError(w, http.StatusBadRequest, "lat and lon query parameters are required")
			return
		}

		radius := defaultNearbyRadius
		if v := q.Get("radius"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed <= 0 || parsed > maxNearbyRadius {
				utils.RespondError(w, http.StatusBadRequest, "radius must be between 0 and 50000 meters")
				return
			}
			radius = parsed
		}

		riders, err := live.Nearby(r.Context(), geo.Point{Lat: lat, Lon: lon}, radius, nearbyLimit)
		if err != nil {
			log.Printf("❌ Error querying nearby riders: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to query nearby riders")
			return
		}
		if riders == nil {
			riders = []ports.NearbyRider{}
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"riders":  riders,
		})
	}
}

// GetRiderDistance returns the rider's distance for ?period=day|week|month
func GetRiderDistance(svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID := chi.URLParam(r, "riderID")

		period, err := reports.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err := svc.RiderDistance(r.Context(), riderID, period)
		if err != nil {
			log.Printf("❌ Error computing distance for rider %s: %v", riderID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to compute distance")
			return
		}

		utils.RespondData(w, http.StatusOK, report)
	}
}

// GetDistanceLeaderboard ranks riders by distance for ?period=
func GetDistanceLeaderboard(svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := reports.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		board, err := svc.Leaderboard(r.Context(), period)
		if err != nil {
			log.Printf("❌ Error building distance leaderboard: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to build leaderboard")
			return
		}

		utils.RespondData(w, http.StatusOK, board)
	}
}

// GetRouteToday returns the rider's ordered points since midnight UTC
func GetRouteToday(svc *reports.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID := chi.URLParam(r, "riderID")

		route, err := svc.RouteToday(r.Context(), riderID)
		if err != nil {
			log.Printf("❌ Error fetching route for rider %s: %v", riderID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch route")
			return
		}

		utils.RespondData(w, http.StatusOK, route)
	}
}
