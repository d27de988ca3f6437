package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agencydesk/internal/repository"
	"agencydesk/internal/utils"
)

// ProfileHTTP exposes member administration for organization staff.
type ProfileHTTP struct {
	profiles repository.ProfileRepository
}

func NewProfileHTTP(profiles repository.ProfileRepository) *ProfileHTTP {
	return &ProfileHTTP{profiles: profiles}
}

// GET /api/profiles: members of the caller's organization.
func (h *ProfileHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		items, err := h.profiles.ListByOrg(r.Context(), orgID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

// GET /api/profiles/{id}: self or staff (guarded in the router).
func (h *ProfileHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		p, err := h.profiles.GetByID(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if p == nil || p.OrganizationID == nil || *p.OrganizationID != orgID {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

// PATCH /api/profiles/{id}: role-in-org and active flag; owners only.
func (h *ProfileHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name      *string `json:"name"`
		RoleInOrg *string `json:"roleInOrg"`
		Active    *bool   `json:"active"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		p, err := h.profiles.GetByID(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if p == nil || p.OrganizationID == nil || *p.OrganizationID != orgID {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.RoleInOrg != nil {
			p.RoleInOrg = *in.RoleInOrg
		}
		if in.Active != nil {
			p.Active = *in.Active
		}

		if err := h.profiles.Update(r.Context(), p); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}
