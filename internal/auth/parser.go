package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/tourquote/internal/model"
)

var ErrInvalidToken = errors.New("invalid access token")

type claims struct {
	AgencyID string `json:"agency_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse verifies the access token and extracts the caller's identity.
// Token issuance lives in the identity service; we only read.
func (p *Parser) Parse(token string) (model.Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}
	agencyID, err := uuid.Parse(c.AgencyID)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	return model.Principal{UserID: userID, AgencyID: agencyID, Role: c.Role}, nil
}
