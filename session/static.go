package session

import (
	"context"
	"strings"

	"github.com/goliatone/go-memberapi/core"
)

// StaticProvider serves one fixed token, for service-to-service deployments
// where the credential is provisioned out of band. Refresh is a no-op that
// returns the same token.
type StaticProvider struct {
	Token string
}

func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{Token: strings.TrimSpace(token)}
}

func (p *StaticProvider) Session(context.Context) (string, error) {
	if p == nil {
		return "", nil
	}
	return p.Token, nil
}

func (p *StaticProvider) Refresh(context.Context) (string, error) {
	if p == nil {
		return "", nil
	}
	return p.Token, nil
}

var _ core.SessionProvider = (*StaticProvider)(nil)
