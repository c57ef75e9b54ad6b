package domain

// User is the profile attached to an authenticated account.
type User struct {
	AuthUserID   string  `json:"id"`
	RoleID       int32   `json:"role_id"`
	Name         string  `json:"name"`
	Surname      string  `json:"surname"`
	Email        string  `json:"email"`
	PhoneNumber  *string `json:"phone_number"`
	DisplayName  string  `json:"display_name"`
	AvatarURL    *string `json:"avatar_url"`
	PasswordHash string  `json:"-"`
}

// IsAdmin reports whether the user may manage clients, materials and other users' reservations.
func (u User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}

type ProfilePatch struct {
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Surname == nil && p.DisplayName == nil && p.PhoneNumber == nil && p.AvatarURL == nil
}

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	UserID string
	RoleID int32
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == RoleIDAdmin
}

// CanAccessClient reports whether the actor may read or change data of the client.
func (a Actor) CanAccessClient(clientID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == clientID)
}
