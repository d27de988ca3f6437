package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"
	"agencydesk/internal/utils"
)

type FolderHTTP struct {
	folders repository.FolderRepository
}

func NewFolderHTTP(folders repository.FolderRepository) *FolderHTTP {
	return &FolderHTTP{folders: folders}
}

// validateRules rejects rules that could never match; the router tolerates
// malformed rules on read, but new ones should not be saved broken.
func validateRules(rules []models.AutomationRule) error {
	for _, r := range rules {
		if !r.Valid() {
			return errors.New("automation rule needs a known type and a non-empty value")
		}
	}
	return nil
}

func (h *FolderHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		out, err := h.folders.ListByOrg(r.Context(), orgID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": out})
	}
}

func (h *FolderHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name     string                  `json:"name"`
		Color    string                  `json:"color"`
		Position int                     `json:"position"`
		Rules    []models.AutomationRule `json:"automationRules"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := validateRules(in.Rules); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		f := &models.Folder{
			OrganizationID: orgID,
			Name:           in.Name,
			Color:          in.Color,
			Position:       in.Position,
			Rules:          in.Rules,
		}
		if err := h.folders.Create(r.Context(), f); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, f)
	}
}

func (h *FolderHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name     *string                  `json:"name"`
		Color    *string                  `json:"color"`
		Position *int                     `json:"position"`
		Rules    *[]models.AutomationRule `json:"automationRules"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		f, err := h.folders.Get(r.Context(), orgID, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if f == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Name != nil {
			f.Name = strings.TrimSpace(*in.Name)
		}
		if in.Color != nil {
			f.Color = *in.Color
		}
		if in.Position != nil {
			f.Position = *in.Position
		}
		if in.Rules != nil {
			if err := validateRules(*in.Rules); err != nil {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Rules = *in.Rules
		}

		if err := h.folders.Update(r.Context(), f); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, f)
	}
}

func (h *FolderHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		if err := h.folders.Delete(r.Context(), orgID, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
