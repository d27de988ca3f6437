package assistant

import (
	"context"
	"fmt"

	"agencydesk/internal/models"
	"agencydesk/internal/service"
)

// TicketOps is the slice of the ticket service the dispatcher drives. The
// dispatcher adds no validation of its own: actions go through the same
// operations, and fail the same way, as the direct UI path.
type TicketOps interface {
	Create(ctx context.Context, orgID, userID string, in service.CreateTicketInput) (*models.Ticket, error)
	UpdateFields(ctx context.Context, orgID, id string, patch map[string]any) error
	Delete(ctx context.Context, orgID, id string) error
}

type TimerOps interface {
	Start(ctx context.Context, userID, ticketID string) (models.ActiveTimer, error)
	Stop(ctx context.Context, userID string) (*models.WorkSession, error)
}

// ClientOps updates client-company master data (currently the display name).
type ClientOps interface {
	UpdateClientData(ctx context.Context, orgID, clientID string, data map[string]any) error
}

// Dispatcher executes parsed assistant items against the portal services.
type Dispatcher struct {
	Tickets TicketOps
	Timers  TimerOps
	Clients ClientOps
}

// Run walks items in array order, sequentially. Actions append a
// confirmation or error line to the transcript; MESSAGE items append their
// text verbatim. An action failure does not stop later items.
func (d *Dispatcher) Run(ctx context.Context, orgID, userID string, items []Item) []string {
	var transcript []string
	for _, item := range items {
		switch item.Kind {
		case ItemMessage:
			transcript = append(transcript, item.Text)
		case ItemAction:
			transcript = append(transcript, d.execute(ctx, orgID, userID, item))
		}
	}
	return transcript
}

func (d *Dispatcher) execute(ctx context.Context, orgID, userID string, item Item) string {
	switch item.Action {
	case ActionCreateTicket:
		in := service.CreateTicketInput{
			Subject:     str(item.Data, "subject"),
			Description: str(item.Data, "description"),
			Category:    str(item.Data, "category"),
			Priority:    str(item.Data, "priority"),
			ClientName:  str(item.Data, "clientName"),
		}
		t, err := d.Tickets.Create(ctx, orgID, userID, in)
		if err != nil {
			return "Nie udało się utworzyć zgłoszenia: " + err.Error()
		}
		return fmt.Sprintf("Utworzono zgłoszenie „%s” (%s).", t.Subject, t.ID)

	case ActionUpdateTicket:
		id := str(item.Data, "ticketId")
		if id == "" {
			return "Brak identyfikatora zgłoszenia do aktualizacji."
		}
		patch := make(map[string]any, len(item.Data))
		for k, v := range item.Data {
			if k != "ticketId" {
				patch[k] = v
			}
		}
		if err := d.Tickets.UpdateFields(ctx, orgID, id, patch); err != nil {
			return "Nie udało się zaktualizować zgłoszenia: " + err.Error()
		}
		return fmt.Sprintf("Zaktualizowano zgłoszenie %s.", id)

	case ActionDeleteTicket:
		id := str(item.Data, "ticketId")
		if id == "" {
			return "Brak identyfikatora zgłoszenia do usunięcia."
		}
		if err := d.Tickets.Delete(ctx, orgID, id); err != nil {
			return "Nie udało się usunąć zgłoszenia: " + err.Error()
		}
		return fmt.Sprintf("Usunięto zgłoszenie %s.", id)

	case ActionStartTimer:
		id := str(item.Data, "ticketId")
		if id == "" {
			return "Brak identyfikatora zgłoszenia dla timera."
		}
		if _, err := d.Timers.Start(ctx, userID, id); err != nil {
			return "Nie udało się uruchomić timera: " + err.Error()
		}
		return fmt.Sprintf("Timer uruchomiony dla zgłoszenia %s.", id)

	case ActionStopTimer:
		sess, err := d.Timers.Stop(ctx, userID)
		if err != nil {
			return "Nie udało się zatrzymać timera: " + err.Error()
		}
		if sess == nil {
			return "Żaden timer nie był uruchomiony."
		}
		return fmt.Sprintf("Timer zatrzymany, zapisano %d s pracy.", sess.DurationSeconds)

	case ActionUpdateClientData:
		id := str(item.Data, "clientId")
		if id == "" {
			return "Brak identyfikatora klienta."
		}
		if err := d.Clients.UpdateClientData(ctx, orgID, id, item.Data); err != nil {
			return "Nie udało się zaktualizować danych klienta: " + err.Error()
		}
		return "Zaktualizowano dane klienta."
	}
	// Unreachable for parsed items; ParseReply rejects unknown action tags.
	return "Nieznana akcja."
}

func str(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
