package domain

import (
	"strings"
	"time"
)

type RoleName string

const (
	RoleNormal RoleName = "NORMAL"
	RoleAdmin  RoleName = "ADMIN"
	RoleBoss   RoleName = "JEFE"
)

// RoleIDAdmin is the roles table id of administrators; push "admins" audience targets it.
const RoleIDAdmin int32 = 2

type Role struct {
	ID          int32    `json:"id"`
	Name        RoleName `json:"name"`
	Description string   `json:"description,omitempty"`
}

// Client is a customer profile. Its ID is a UUID shared with the auth user when one exists.
type Client struct {
	ID          string    `json:"id"`
	RoleID      int32     `json:"role_id"`
	Name        string    `json:"name" validate:"required,max=80"`
	Surname     string    `json:"surname"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber *string   `json:"phone_number"`
	DisplayName string    `json:"display_name"`
	Avatar      *string   `json:"avatar,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

// FullName joins name and surname the way display names are built.
func FullName(name, surname string) string {
	return strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(surname))
}

type ClientPatch struct {
	RoleID      *int32  `json:"role_id,omitempty"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Surname     *string `json:"surname,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

func (p ClientPatch) Apply(c *Client) {
	if p.RoleID != nil {
		c.RoleID = *p.RoleID
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Surname != nil {
		c.Surname = *p.Surname
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		phone := *p.PhoneNumber
		c.PhoneNumber = &phone
	}
	if p.DisplayName != nil {
		c.DisplayName = *p.DisplayName
	}
	if p.Avatar != nil {
		avatar := *p.Avatar
		c.Avatar = &avatar
	}
}
