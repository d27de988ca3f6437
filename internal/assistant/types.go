package assistant

import (
	"encoding/json"
	"fmt"
)

// ActionKind is the closed set of side-effecting commands the assistant may
// request. String tags exist only at the parse boundary; everything past it
// switches exhaustively on this enum.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionCreateTicket
	ActionUpdateTicket
	ActionDeleteTicket
	ActionStartTimer
	ActionStopTimer
	ActionUpdateClientData
)

var actionNames = map[string]ActionKind{
	"CREATE_TICKET":      ActionCreateTicket,
	"UPDATE_TICKET":      ActionUpdateTicket,
	"DELETE_TICKET":      ActionDeleteTicket,
	"START_TIMER":        ActionStartTimer,
	"STOP_TIMER":         ActionStopTimer,
	"UPDATE_CLIENT_DATA": ActionUpdateClientData,
}

func (k ActionKind) String() string {
	for name, kind := range actionNames {
		if kind == k {
			return name
		}
	}
	return "UNKNOWN"
}

// Item is one element of a parsed assistant reply: either a plain message to
// show the user, or an action to execute.
type Item struct {
	Kind   ItemKind
	Text   string         // MESSAGE
	Action ActionKind     // ACTION
	Data   map[string]any // ACTION payload
}

type ItemKind int

const (
	ItemMessage ItemKind = iota
	ItemAction
)

// rawItem is the wire shape the LLM is prompted to emit.
type rawItem struct {
	Type   string          `json:"type"`
	Text   string          `json:"text"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

func (r rawItem) toItem() (Item, error) {
	switch r.Type {
	case "MESSAGE":
		return Item{Kind: ItemMessage, Text: r.Text}, nil
	case "ACTION":
		kind, ok := actionNames[r.Action]
		if !ok {
			return Item{}, fmt.Errorf("unknown action %q", r.Action)
		}
		data := map[string]any{}
		if len(r.Data) > 0 {
			if err := json.Unmarshal(r.Data, &data); err != nil {
				return Item{}, fmt.Errorf("action %s data: %w", r.Action, err)
			}
		}
		return Item{Kind: ItemAction, Action: kind, Data: data}, nil
	default:
		return Item{}, fmt.Errorf("unknown item type %q", r.Type)
	}
}
