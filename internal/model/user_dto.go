package model

import "github.com/google/uuid"

// UserDTO is the viewer identity placed in request context by the auth
// middleware. Session issuance lives outside this service; only the
// verified subject travels this far.
type UserDTO struct {
	ID uuid.UUID `json:"id"`
}
