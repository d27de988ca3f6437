package service

import (
	"context"
	"errors"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"
)

var ErrInvalidDuration = errors.New("duration must be positive")

// TimerService owns the per-user active timer and the work-session log.
type TimerService struct {
	timers repository.TimerRepository
	now    func() time.Time
}

func NewTimerService(timers repository.TimerRepository) *TimerService {
	return &TimerService{timers: timers, now: time.Now}
}

// Start upserts the user's active timer. A timer already running for this
// user is overwritten in place: its elapsed time is abandoned, no session is
// written. Callers that want the old time must Stop first.
func (s *TimerService) Start(ctx context.Context, userID, ticketID string) (models.ActiveTimer, error) {
	t := models.ActiveTimer{UserID: userID, TicketID: ticketID, StartTime: s.now()}
	if err := s.timers.Upsert(ctx, t); err != nil {
		return models.ActiveTimer{}, err
	}
	return t, nil
}

// Stop closes the user's active timer into exactly one work session. The
// persisted duration is server-clock derived: floor(now - start), clamped to
// zero. With no timer running, Stop is a no-op success and returns nil.
func (s *TimerService) Stop(ctx context.Context, userID string) (*models.WorkSession, error) {
	t, err := s.timers.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	dur := int64(s.now().Sub(t.StartTime).Seconds())
	if dur < 0 {
		dur = 0
	}
	sess := &models.WorkSession{
		TicketID:        t.TicketID,
		UserID:          userID,
		StartTime:       t.StartTime,
		DurationSeconds: dur,
	}
	if err := s.timers.InsertSession(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.timers.Delete(ctx, userID); err != nil {
		return nil, err
	}
	return sess, nil
}

// Active reports whether a timer is running for the user. Elapsed time is
// derived client-side against StartTime; only Stop persists a duration.
func (s *TimerService) Active(ctx context.Context, userID string) (*models.ActiveTimer, error) {
	return s.timers.Get(ctx, userID)
}

// AddManualSession records a backdated block of work without a timer. Same
// table, same shape as timer-derived sessions.
func (s *TimerService) AddManualSession(ctx context.Context, userID, ticketID string, start time.Time, minutes int, note string) (*models.WorkSession, error) {
	if minutes <= 0 {
		return nil, ErrInvalidDuration
	}
	sess := &models.WorkSession{
		TicketID:        ticketID,
		UserID:          userID,
		StartTime:       start,
		DurationSeconds: int64(minutes) * 60,
		Note:            note,
	}
	if err := s.timers.InsertSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *TimerService) Sessions(ctx context.Context, ticketID string) ([]models.WorkSession, int64, error) {
	list, err := s.timers.ListSessions(ctx, ticketID)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, ws := range list {
		total += ws.DurationSeconds
	}
	return list, total, nil
}

func (s *TimerService) DeleteSession(ctx context.Context, id string) error {
	return s.timers.DeleteSession(ctx, id)
}

// TrackedSeconds is the ticket's total tracked time: closed sessions plus
// the elapsed time of every running timer on that ticket, whoever owns it.
func (s *TimerService) TrackedSeconds(ctx context.Context, ticketID string) (int64, error) {
	total, err := s.timers.TotalSeconds(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	running, err := s.timers.ActiveByTicket(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	for _, t := range running {
		if elapsed := int64(s.now().Sub(t.StartTime).Seconds()); elapsed > 0 {
			total += elapsed
		}
	}
	return total, nil
}
