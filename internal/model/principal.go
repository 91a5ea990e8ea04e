package model

import "github.com/google/uuid"

type Principal struct {
	UserID   uuid.UUID
	AgencyID uuid.UUID
	Role     string
}

func (p Principal) IsManager() bool {
	return p.Role == "MANAGER" || p.Role == "ADMIN"
}

func (p Principal) IsAgent() bool {
	return p.Role == "AGENT"
}
