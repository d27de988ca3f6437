package assistant

import "testing"

func TestParseReplyPlainArray(t *testing.T) {
	raw := `[{"type":"MESSAGE","text":"hello"},{"type":"ACTION","action":"STOP_TIMER","data":{}}]`
	items := ParseReply(raw)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Kind != ItemMessage || items[0].Text != "hello" {
		t.Fatalf("first item wrong: %+v", items[0])
	}
	if items[1].Kind != ItemAction || items[1].Action != ActionStopTimer {
		t.Fatalf("second item wrong: %+v", items[1])
	}
}

func TestParseReplyStripsCodeFence(t *testing.T) {
	raw := "```json\n[{\"type\":\"MESSAGE\",\"text\":\"ok\"}]\n```"
	items := ParseReply(raw)
	if len(items) != 1 || items[0].Text != "ok" {
		t.Fatalf("fenced reply not parsed: %+v", items)
	}

	bare := "```\n[{\"type\":\"MESSAGE\",\"text\":\"ok\"}]\n```"
	items = ParseReply(bare)
	if len(items) != 1 || items[0].Text != "ok" {
		t.Fatalf("bare fence not parsed: %+v", items)
	}
}

func TestParseReplyProseFallback(t *testing.T) {
	raw := "I could not decide on an action, sorry."
	items := ParseReply(raw)
	if len(items) != 1 || items[0].Kind != ItemMessage || items[0].Text != raw {
		t.Fatalf("prose must become a single MESSAGE with the raw text: %+v", items)
	}
}

func TestParseReplyUnknownActionFallsBack(t *testing.T) {
	raw := `[{"type":"ACTION","action":"LAUNCH_MISSILES","data":{}}]`
	items := ParseReply(raw)
	if len(items) != 1 || items[0].Kind != ItemMessage || items[0].Text != raw {
		t.Fatalf("unknown action must degrade to prose: %+v", items)
	}
}

func TestParseReplyActionData(t *testing.T) {
	raw := `[{"type":"ACTION","action":"CREATE_TICKET","data":{"subject":"New logo","category":"MARKETING","description":"Refresh the brand"}}]`
	items := ParseReply(raw)
	if len(items) != 1 || items[0].Action != ActionCreateTicket {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Data["subject"] != "New logo" {
		t.Fatalf("data lost: %v", items[0].Data)
	}
}
