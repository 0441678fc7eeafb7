package repositories

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRail is the boundary to the external payment integration. The
// core only needs the opaque settlement token it hands out at pending-
// transaction creation; the rail itself later triggers the operator's
// confirm call out of band.
type PaymentRail interface {
	CreateTransactionToken(ctx context.Context) (uuid.UUID, error)
}
