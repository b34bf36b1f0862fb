package dto

import "encoding/json"

// IdentityEvent is the identity provider's webhook envelope.
type IdentityEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// IdentityUserData is the payload of user.* events.
type IdentityUserData struct {
	ID             string                 `json:"id"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	ImageURL       string                 `json:"image_url"`
	EmailAddresses []IdentityEmailAddress `json:"email_addresses"`
}

type IdentityEmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first email address, or "".
func (d IdentityUserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}
