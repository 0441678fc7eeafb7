// Package paymentrail integrates the external payment rail. The rail
// hands out the settlement token referenced by pending transactions and
// later drives the operator's confirm call out of band.
package paymentrail

import (
	"context"

	"github.com/google/uuid"

	"wallet-kita.backend/pkg/utils"
)

// TokenProvider issues opaque external transaction tokens
type TokenProvider struct{}

// NewTokenProvider creates a new token provider
func NewTokenProvider() *TokenProvider {
	return &TokenProvider{}
}

// CreateTransactionToken returns a fresh settlement token. The token is
// unique per call, which is what makes it usable as an idempotency key.
func (p *TokenProvider) CreateTransactionToken(ctx context.Context) (uuid.UUID, error) {
	return utils.GenerateUUIDv7(), nil
}
