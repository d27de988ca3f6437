package models

import "time"

// WorkSession is one closed, contiguous block of tracked work. Immutable once
// written except for deletion. Timer-derived and manually-entered sessions
// share this shape.
type WorkSession struct {
	ID              string    `json:"id"`
	TicketID        string    `json:"ticketId"`
	UserID          string    `json:"userId"`
	StartTime       time.Time `json:"startTime"`
	DurationSeconds int64     `json:"durationSeconds"`
	Note            string    `json:"note"`
}

// ActiveTimer is the single in-progress tracking record per user, keyed by
// user id. Deleted on stop, when it becomes exactly one WorkSession.
type ActiveTimer struct {
	UserID    string    `json:"userId"`
	TicketID  string    `json:"ticketId"`
	StartTime time.Time `json:"startTime"`
}
