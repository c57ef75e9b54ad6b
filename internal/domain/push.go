package domain

import "time"

type PushToken struct {
	Token      string    `json:"token"`
	UserID     string    `json:"user_id"`
	DeviceName string    `json:"device_name"`
	CreatedOn  time.Time `json:"created_on"`
}

type PushAudience string

const (
	PushAudienceAll    PushAudience = "all"
	PushAudienceAdmins PushAudience = "admins"
)

// PushMessage is one notification addressed to a batch of device tokens.
type PushMessage struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}
