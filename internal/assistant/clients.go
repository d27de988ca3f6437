package assistant

import (
	"context"
	"errors"

	"agencydesk/internal/repository"
)

// ProfileClients adapts the profile repository to ClientOps: client master
// data currently means the profile display name.
type ProfileClients struct {
	Profiles repository.ProfileRepository
}

func (p *ProfileClients) UpdateClientData(ctx context.Context, orgID, clientID string, data map[string]any) error {
	prof, err := p.Profiles.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if prof == nil || prof.OrganizationID == nil || *prof.OrganizationID != orgID {
		return errors.New("client not found")
	}
	if name, ok := data["name"].(string); ok && name != "" {
		prof.Name = name
	}
	return p.Profiles.Update(ctx, prof)
}
