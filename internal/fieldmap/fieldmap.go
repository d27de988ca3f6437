// Package fieldmap is the single place where externally-supplied field names
// (camelCase from the web client and the assistant, snake_case from older
// integrations) are collapsed onto canonical ticket columns. Business logic
// never sees an alias.
package fieldmap

import (
	"github.com/serenize/snaker"
)

// ticketColumns is the set of ticket fields a partial update may touch.
// Everything else (id, organization_id, created_by_user_id, billing_month,
// created_at, updated_at) is owned by the server and silently dropped.
var ticketColumns = map[string]struct{}{
	"client_name":      {},
	"subject":          {},
	"description":      {},
	"category":         {},
	"status":           {},
	"priority":         {},
	"price":            {},
	"billing_type":     {},
	"folder_id":        {},
	"admin_start_date": {},
	"admin_deadline":   {},
	"internal_notes":   {},
	"public_notes":     {},
	"subtasks":         {},
	"attachments":      {},
}

// Canonical returns the canonical column for an external key and whether the
// key addresses an updatable ticket field at all.
func Canonical(key string) (string, bool) {
	col := snaker.CamelToSnake(key)
	_, ok := ticketColumns[col]
	return col, ok
}

// NormalizeTicketPatch rewrites a partial-update payload onto canonical
// column names, dropping aliases for the same column (last write wins, in
// map iteration order) and any key that is not an updatable ticket field.
func NormalizeTicketPatch(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if col, ok := Canonical(k); ok {
			out[col] = v
		}
	}
	return out
}
