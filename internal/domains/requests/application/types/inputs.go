package types

import (
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
)

// CreateRequestInput opens a new request on behalf of a requester.
type CreateRequestInput struct {
	RequestNumber string
	Requester     string
	Entity        string
	Items         []domain.LineItem
}

// SubmitInput re-submits an existing request with an edited item list. The
// whole list is overwritten and the approval chain restarts.
type SubmitInput struct {
	RequestNumber string
	Requester     string
	Items         []domain.LineItem
}

// DecideInput records one stage actor's decision.
type DecideInput struct {
	RequestNumber string
	Stage         domain.Stage
	Outcome       domain.Outcome
	Feedback      string
}

// RequestIdentifier addresses a record by its business key.
type RequestIdentifier struct {
	RequestNumber string
}

// StatusChangeEvent describes a committed lifecycle transition; it is the
// payload of the fire-and-forget notification side effect.
type StatusChangeEvent struct {
	ID            string
	RequestNumber string
	Status        domain.Status
}
