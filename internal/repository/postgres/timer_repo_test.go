package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"agencydesk/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestPool(t *testing.T) (*pgxpool.Pool, func()) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		pool.Close()
		t.Fatalf("create schema: %v", err)
	}
	if err := createTestTables(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("create tables: %v", err)
	}
	return pool, func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		pool.Close()
	}
}

func createTestTables(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE organizations (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), name text, vip_status text DEFAULT 'free', created_at timestamptz DEFAULT now())`,
		`CREATE TABLE folders (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), organization_id uuid, name text, color text DEFAULT '', position int DEFAULT 0, automation_rules jsonb DEFAULT '[]'::jsonb)`,
		`CREATE TABLE tickets (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), organization_id uuid, created_by_user_id uuid, client_name text DEFAULT '', subject text, description text, category text, status text DEFAULT 'REVIEW', priority text DEFAULT 'NORMAL', price numeric(10,2), billing_type text, billing_month text, folder_id uuid, admin_start_date timestamptz DEFAULT now(), admin_deadline timestamptz, internal_notes text DEFAULT '', public_notes text DEFAULT '', subtasks jsonb DEFAULT '[]'::jsonb, attachments jsonb DEFAULT '[]'::jsonb, history_log jsonb DEFAULT '[]'::jsonb, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE work_sessions (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), ticket_id uuid REFERENCES tickets(id) ON DELETE CASCADE, user_id uuid, start_time timestamptz, duration_seconds bigint, note text DEFAULT '')`,
		`CREATE TABLE active_timers (user_id uuid PRIMARY KEY, ticket_id uuid, start_time timestamptz)`,
	}
	for _, q := range queries {
		if _, err := pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func seedTicket(t *testing.T, pool *pgxpool.Pool) (orgID, ticketID, userID string) {
	ctx := context.Background()
	if err := pool.QueryRow(ctx, `INSERT INTO organizations (name) VALUES ('Acme') RETURNING id`).Scan(&orgID); err != nil {
		t.Fatalf("org: %v", err)
	}
	userID = "5f7a0a8e-7a4b-4a6e-9e3e-0f2b7c1d2e3f"
	if err := pool.QueryRow(ctx, `
		INSERT INTO tickets (organization_id, created_by_user_id, subject, description, category, billing_month)
		VALUES ($1, $2, 'Seed', 'seed', 'BUG', '2026-08') RETURNING id`, orgID, userID).Scan(&ticketID); err != nil {
		t.Fatalf("ticket: %v", err)
	}
	return
}

func TestTimerUpsertKeepsOneRowPerUser(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()
	ctx := context.Background()
	_, ticketID, userID := seedTicket(t, pool)

	repo := NewTimerRepo(pool)
	t0 := time.Now().UTC().Truncate(time.Second)
	if err := repo.Upsert(ctx, models.ActiveTimer{UserID: userID, TicketID: ticketID, StartTime: t0}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Second start overwrites in place; still exactly one row.
	t1 := t0.Add(30 * time.Minute)
	if err := repo.Upsert(ctx, models.ActiveTimer{UserID: userID, TicketID: ticketID, StartTime: t1}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM active_timers WHERE user_id=$1`, userID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one timer row, got %d", n)
	}

	got, err := repo.Get(ctx, userID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if !got.StartTime.Equal(t1) {
		t.Fatalf("expected overwritten start %v, got %v", t1, got.StartTime)
	}

	byTicket, err := repo.ActiveByTicket(ctx, ticketID)
	if err != nil {
		t.Fatalf("active by ticket: %v", err)
	}
	if len(byTicket) != 1 || byTicket[0].UserID != userID {
		t.Fatalf("expected the timer via ticket lookup, got %+v", byTicket)
	}
}

func TestSessionsSurviveAndSum(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()
	ctx := context.Background()
	_, ticketID, userID := seedTicket(t, pool)

	repo := NewTimerRepo(pool)
	for _, d := range []int64{600, 900} {
		s := &models.WorkSession{TicketID: ticketID, UserID: userID, StartTime: time.Now().UTC(), DurationSeconds: d}
		if err := repo.InsertSession(ctx, s); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if s.ID == "" {
			t.Fatal("insert must return the generated id")
		}
	}

	total, err := repo.TotalSeconds(ctx, ticketID)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 1500 {
		t.Fatalf("expected 1500s, got %d", total)
	}

	list, err := repo.ListSessions(ctx, ticketID)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v err=%v", list, err)
	}
}

func TestDeletingTicketCascadesSessions(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()
	ctx := context.Background()
	orgID, ticketID, userID := seedTicket(t, pool)

	timers := NewTimerRepo(pool)
	s := &models.WorkSession{TicketID: ticketID, UserID: userID, StartTime: time.Now().UTC(), DurationSeconds: 120}
	if err := timers.InsertSession(ctx, s); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tickets := NewTicketRepo(pool)
	if err := tickets.Delete(ctx, orgID, ticketID); err != nil {
		t.Fatalf("delete ticket: %v", err)
	}

	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM work_sessions WHERE ticket_id=$1`, ticketID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("sessions must cascade with the ticket, %d left", n)
	}
}
