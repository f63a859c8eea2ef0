package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	sessionStatusActive  = "active"
	sessionStatusRevoked = "revoked"
)

type sessionRecord struct {
	bun.BaseModel `bun:"table:member_sessions,alias:ms"`

	ID               string     `bun:"id,pk"`
	Subject          string     `bun:"subject,notnull"`
	Version          int        `bun:"version,notnull"`
	TokenType        string     `bun:"token_type,notnull"`
	AccessToken      string     `bun:"access_token,notnull"`
	RefreshToken     string     `bun:"refresh_token"`
	ExpiresAt        *time.Time `bun:"expires_at,nullzero"`
	Status           string     `bun:"status,notnull"`
	RevocationReason string     `bun:"revocation_reason"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
