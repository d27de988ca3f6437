package models

import "time"

// Roles within the portal and within an organization.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"

	OrgRoleOwner  = "owner"
	OrgRoleMember = "member"
)

type Profile struct {
	ID             string    `json:"id"`
	OrganizationID *string   `json:"organizationId"` // nil until provisioned
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`      // admin | client
	RoleInOrg      string    `json:"roleInOrg"` // owner | member
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
