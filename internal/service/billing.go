package service

import (
	"agencydesk/internal/models"
)

// calibrationFloorSeconds: below 15 minutes of tracked time a fixed-price
// rate would be dominated by noise, so it is reported as "calibrating"
// instead of a misleadingly large number.
const calibrationFloorSeconds = 15 * 60

// TicketMetrics is the billing view of one ticket.
type TicketMetrics struct {
	TrackedSeconds int64 `json:"trackedSeconds"`
	// Calibrating is true for FIXED tickets with too little tracked time
	// for RevenuePerHour to mean anything; RevenuePerHour is nil then.
	Calibrating    bool     `json:"calibrating"`
	RevenuePerHour *float64 `json:"revenuePerHour,omitempty"` // FIXED only
	AccruedRevenue *float64 `json:"accruedRevenue,omitempty"` // HOURLY only
}

// ComputeMetrics derives the billing metrics for a ticket.
// trackedSeconds already includes the elapsed time of a running timer, if
// the caller chose to add it.
func ComputeMetrics(t *models.Ticket, trackedSeconds int64) TicketMetrics {
	m := TicketMetrics{TrackedSeconds: trackedSeconds}
	if t.BillingType == nil || t.Price == nil {
		return m
	}
	hours := float64(trackedSeconds) / 3600.0

	switch *t.BillingType {
	case models.BillingFixed:
		if trackedSeconds < calibrationFloorSeconds {
			m.Calibrating = true
			return m
		}
		rhr := *t.Price / hours
		m.RevenuePerHour = &rhr
	case models.BillingHourly:
		accrued := hours * *t.Price
		m.AccruedRevenue = &accrued
	}
	return m
}
