// Package reports aggregates the stored GPS trail into distance figures.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rider-fleet-backend/internal/geo"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/ports"
)

// Period selects the reporting window
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts day, week or month; empty means day
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodWeek, PeriodMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period %q (must be day, week or month)", s)
}

// Start returns the beginning of the window ending at now.
// Day starts at UTC midnight; week and month are rolling 7 and 30 days.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// RiderDistance is the path length a rider covered in a period
type RiderDistance struct {
	RiderID string    `json:"rider_id"`
	Period  Period    `json:"period"`
	From    time.Time `json:"from"`
	Km      float64   `json:"km"`
}

// RoutePoint is one stop on a rider's drawn route
type RoutePoint struct {
	Lat  float64   `json:"lat"`
	Lng  float64   `json:"lng"`
	Time time.Time `json:"time"`
}

type Service struct {
	telemetry ports.TelemetryStore
	now       func() time.Time
}

func NewService(telemetry ports.TelemetryStore) *Service {
	return &Service{telemetry: telemetry, now: time.Now}
}

// RiderDistance sums the rider's path over the period
func (s *Service) RiderDistance(ctx context.Context, riderID string, p Period) (RiderDistance, error) {
	now := s.now()
	from := p.Start(now)

	samples, err := s.telemetry.Range(ctx, riderID, from, now)
	if err != nil {
		return RiderDistance{}, err
	}
	return RiderDistance{RiderID: riderID, Period: p, From: from, Km: pathKm(samples)}, nil
}

// Leaderboard ranks every rider that reported in the period by distance, longest first
func (s *Service) Leaderboard(ctx context.Context, p Period) ([]RiderDistance, error) {
	now := s.now()
	from := p.Start(now)

	riders, err := s.telemetry.RidersSince(ctx, from)
	if err != nil {
		return nil, err
	}

	board := make([]RiderDistance, 0, len(riders))
	for _, riderID := range riders {
		samples, err := s.telemetry.Range(ctx, riderID, from, now)
		if err != nil {
			return nil, fmt.Errorf("rider %s: %w", riderID, err)
		}
		board = append(board, RiderDistance{RiderID: riderID, Period: p, From: from, Km: pathKm(samples)})
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Km != board[j].Km {
			return board[i].Km > board[j].Km
		}
		return board[i].RiderID < board[j].RiderID
	})
	return board, nil
}

// RouteToday returns the rider's samples since UTC midnight in order
func (s *Service) RouteToday(ctx context.Context, riderID string) ([]RoutePoint, error) {
	now := s.now()
	samples, err := s.telemetry.Range(ctx, riderID, PeriodDay.Start(now), now)
	if err != nil {
		return nil, err
	}

	route := make([]RoutePoint, len(samples))
	for i, smp := range samples {
		route[i] = RoutePoint{Lat: smp.Latitude, Lng: smp.Longitude, Time: smp.Timestamp}
	}
	return route, nil
}

func pathKm(samples []models.GPSSample) float64 {
	pts := make([]geo.Point, len(samples))
	for i, smp := range samples {
		pts[i] = geo.Point{Lat: smp.Latitude, Lon: smp.Longitude}
	}
	return geo.PathKm(pts)
}
