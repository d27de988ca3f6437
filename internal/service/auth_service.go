package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"
	"agencydesk/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	profiles      repository.ProfileRepository
	sessionSecret string
}

func NewAuthService(profiles repository.ProfileRepository, sessionSecret string) *AuthService {
	return &AuthService{profiles: profiles, sessionSecret: sessionSecret}
}

// Register creates a client profile. Staff accounts are provisioned by an
// owner, never self-registered.
func (a *AuthService) Register(ctx context.Context, email, name, password string) (*models.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || len(password) < 6 {
		return nil, errors.New("invalid input")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return a.profiles.Create(ctx, email, name, models.RoleClient, hash)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (token string, p *models.Profile, err error) {
	p, hash, err := a.profiles.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if p == nil || !p.Active {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	orgID := ""
	if p.OrganizationID != nil {
		orgID = *p.OrganizationID
	}
	tok, err := utils.SignJWT(a.sessionSecret, p.ID, p.Role, orgID, 24*time.Hour)
	if err != nil {
		return "", nil, err
	}
	return tok, p, nil
}
