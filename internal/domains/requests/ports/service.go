package ports

import (
	"context"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
)

// Service defines the request lifecycle use cases exposed to adapters
// (inbound/driving port).
type Service interface {
	CreateRequest(ctx context.Context, input reqtypes.CreateRequestInput) (*reqtypes.RequestProjection, error)
	Submit(ctx context.Context, input reqtypes.SubmitInput) (*reqtypes.RequestProjection, error)
	Decide(ctx context.Context, input reqtypes.DecideInput) (*reqtypes.RequestProjection, error)
	GetByNumber(ctx context.Context, input reqtypes.RequestIdentifier) (*reqtypes.RequestProjection, error)
	ListByStatus(ctx context.Context, statuses []string) ([]*reqtypes.RequestProjection, error)
	List(ctx context.Context) ([]*reqtypes.RequestProjection, error)
}
