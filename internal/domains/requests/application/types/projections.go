package types

import (
	"time"

	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	"github.com/adiwjy/go-procurement-api/internal/shared/projection"
)

// RequestProjection transports a record together with its persistence
// metadata. Metadata.Revision is the conditional-update token.
type RequestProjection = projection.Projection[*domain.RequestRecord]

// NewRequestProjection wraps a record with persistence metadata.
func NewRequestProjection(record *domain.RequestRecord, revision int64, createdAt, updatedAt time.Time) *RequestProjection {
	if record == nil {
		return nil
	}
	return &RequestProjection{
		Entity: record,
		Metadata: projection.Metadata{
			Revision:  revision,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
	}
}
