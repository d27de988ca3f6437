package postgres

import (
	"context"

	"agencydesk/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimerRepo struct{ db *pgxpool.Pool }

func NewTimerRepo(db *pgxpool.Pool) *TimerRepo { return &TimerRepo{db: db} }

// Upsert writes the user's active timer, overwriting any running one. The
// user_id primary key is the only thing enforcing "at most one timer per
// user"; near-simultaneous starts race here and the last write wins.
func (r *TimerRepo) Upsert(ctx context.Context, t models.ActiveTimer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO active_timers (user_id, ticket_id, start_time)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET ticket_id=EXCLUDED.ticket_id, start_time=EXCLUDED.start_time`,
		t.UserID, t.TicketID, t.StartTime)
	return err
}

func (r *TimerRepo) Get(ctx context.Context, userID string) (*models.ActiveTimer, error) {
	var t models.ActiveTimer
	err := r.db.QueryRow(ctx, `
		SELECT user_id, ticket_id, start_time FROM active_timers WHERE user_id=$1`, userID).
		Scan(&t.UserID, &t.TicketID, &t.StartTime)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ActiveByTicket lists every user's running timer on a ticket. More than one
// staff member can be on the clock for the same ticket at once.
func (r *TimerRepo) ActiveByTicket(ctx context.Context, ticketID string) ([]models.ActiveTimer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, ticket_id, start_time FROM active_timers WHERE ticket_id=$1`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActiveTimer
	for rows.Next() {
		var t models.ActiveTimer
		if err := rows.Scan(&t.UserID, &t.TicketID, &t.StartTime); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TimerRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM active_timers WHERE user_id=$1`, userID)
	return err
}

func (r *TimerRepo) InsertSession(ctx context.Context, s *models.WorkSession) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO work_sessions (ticket_id, user_id, start_time, duration_seconds, note)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		s.TicketID, s.UserID, s.StartTime, s.DurationSeconds, s.Note).Scan(&s.ID)
}

func (r *TimerRepo) ListSessions(ctx context.Context, ticketID string) ([]models.WorkSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, ticket_id, user_id, start_time, duration_seconds, note
		FROM work_sessions WHERE ticket_id=$1
		ORDER BY start_time DESC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkSession
	for rows.Next() {
		var s models.WorkSession
		if err := rows.Scan(&s.ID, &s.TicketID, &s.UserID, &s.StartTime, &s.DurationSeconds, &s.Note); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *TimerRepo) DeleteSession(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM work_sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TotalSeconds sums closed sessions for a ticket. A running timer's elapsed
// time is added by the caller, not here.
func (r *TimerRepo) TotalSeconds(ctx context.Context, ticketID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_seconds), 0) FROM work_sessions WHERE ticket_id=$1`, ticketID).Scan(&n)
	return n, err
}
