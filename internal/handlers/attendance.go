package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rider-fleet-backend/internal/attendance"
	"rider-fleet-backend/pkg/utils"
)

// ClassifyAttendance (re)classifies a booking from its GPS trail
func ClassifyAttendance(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "bookingID")
		log.Printf("📥 REQUEST: POST /api/attendance/%s/classify", bookingID)

		rec, err := svc.ClassifyBooking(r.Context(), bookingID)
		if err != nil {
			if errors.Is(err, attendance.ErrBookingNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Booking not found")
				return
			}
			log.Printf("❌ Error classifying booking %s: %v", bookingID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to classify attendance")
			return
		}

		utils.RespondData(w, http.StatusOK, rec)
	}
}

// GetAttendance returns the stored classification for a booking
func GetAttendance(svc *attendance.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "bookingID")

		rec, err := svc.GetAttendance(r.Context(), bookingID)
		if err != nil {
			if errors.Is(err, attendance.ErrBookingNotFound) {
				utils.RespondError(w, http.StatusNotFound, "Attendance not found")
				return
			}
			log.Printf("❌ Error fetching attendance %s: %v", bookingID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch attendance")
			return
		}

		utils.RespondData(w, http.StatusOK, rec)
	}
}
