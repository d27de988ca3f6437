package fieldmap

import "testing"

func TestCanonicalAliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"billingType", "billing_type", true},
		{"billing_type", "billing_type", true},
		{"internalNotes", "internal_notes", true},
		{"folderId", "folder_id", true},
		{"adminDeadline", "admin_deadline", true},
		{"subject", "subject", true},
		{"billingMonth", "billing_month", false}, // server-owned
		{"organizationId", "organization_id", false},
		{"id", "id", false},
		{"nonsense", "nonsense", false},
	}
	for _, c := range cases {
		got, ok := Canonical(c.in)
		if ok != c.ok {
			t.Errorf("Canonical(%q) ok=%v, want %v", c.in, ok, c.ok)
		}
		if ok && got != c.want {
			t.Errorf("Canonical(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTicketPatchDropsServerOwned(t *testing.T) {
	in := map[string]any{
		"internalNotes": "note",
		"status":        "DONE",
		"billingMonth":  "2031-01",
		"createdAt":     "whenever",
	}
	out := NormalizeTicketPatch(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 keys, got %v", out)
	}
	if out["internal_notes"] != "note" || out["status"] != "DONE" {
		t.Fatalf("unexpected patch: %v", out)
	}
}
