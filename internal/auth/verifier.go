package auth

import (
	"context"
	"errors"
	"fmt"
)

var ErrTokenRevoked = errors.New("token revoked")

// Verifier checks a bearer token's signature and its revocation state.
type Verifier struct {
	Secret   string
	Denylist Denylist
}

func (v Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := ParseJWT(v.Secret, token)
	if err != nil {
		return nil, err
	}
	if v.Denylist == nil || claims.ID == "" {
		return claims, nil
	}
	revoked, err := v.Denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
