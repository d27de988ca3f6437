package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"agencydesk/internal/repository"
	"agencydesk/internal/utils"

	"github.com/rs/zerolog"
)

// BillingHTTP receives payment-provider webhooks.
type BillingHTTP struct {
	orgs     repository.OrganizationRepository
	profiles repository.ProfileRepository
	secret   string
	log      zerolog.Logger
}

func NewBillingHTTP(orgs repository.OrganizationRepository, profiles repository.ProfileRepository, secret string, log zerolog.Logger) *BillingHTTP {
	return &BillingHTTP{orgs: orgs, profiles: profiles, secret: secret, log: log}
}

// planTiers maps provider plan ids onto organization tiers.
var planTiers = map[string]string{
	"plan_standard": "standard",
	"plan_vip":      "vip",
}

// POST /api/webhooks/billing
// A completed checkout sets the organization tier and re-activates its
// members. The update is a plain field set, so replayed deliveries are
// harmless.
func (h *BillingHTTP) Webhook() http.HandlerFunc {
	type event struct {
		Type     string `json:"type"`
		Metadata struct {
			OrganizationID string `json:"organization_id"`
			PlanID         string `json:"plan_id"`
		} `json:"metadata"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if h.secret != "" {
			sig := r.Header.Get("X-Webhook-Secret")
			if subtle.ConstantTimeCompare([]byte(sig), []byte(h.secret)) != 1 {
				utils.Error(w, http.StatusUnauthorized, "bad signature")
				return
			}
		}

		var ev event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if ev.Type != "checkout.completed" {
			// Not ours; acknowledge so the provider stops retrying.
			utils.JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}

		orgID := ev.Metadata.OrganizationID
		tier, ok := planTiers[ev.Metadata.PlanID]
		if orgID == "" || !ok {
			utils.Error(w, http.StatusBadRequest, "unknown organization or plan")
			return
		}

		if err := h.orgs.SetTier(r.Context(), orgID, tier); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := h.profiles.ActivateMembers(r.Context(), orgID); err != nil {
			// Tier is set; member activation failing is a degraded success.
			h.log.Warn().Err(err).Str("org", orgID).Msg("member activation failed")
		}
		h.log.Info().Str("org", orgID).Str("tier", tier).Msg("checkout completed")
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
