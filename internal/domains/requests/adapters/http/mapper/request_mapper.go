// Package mapper converts between transport payloads and the request domain.
package mapper

import (
	"time"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
)

// CreateRequestPayload is the transport shape for opening a request.
type CreateRequestPayload struct {
	RequestNumber string            `json:"requestNumber" binding:"required"`
	Requester     string            `json:"requester" binding:"required"`
	Entity        string            `json:"entity"`
	Items         []domain.LineItem `json:"items" binding:"required"`
}

// SubmitPayload is the transport shape for re-submitting an edited item list.
type SubmitPayload struct {
	Requester string            `json:"requester" binding:"required"`
	Items     []domain.LineItem `json:"items" binding:"required"`
}

// DecisionPayload is the transport shape for one stage actor's decision.
type DecisionPayload struct {
	Stage    string `json:"stage" binding:"required"`
	Outcome  string `json:"outcome" binding:"required"`
	Feedback string `json:"feedback"`
}

// RequestResponse is the transport representation of a stored request.
type RequestResponse struct {
	ID            string                `json:"id"`
	RequestNumber string                `json:"requestNumber"`
	Requester     string                `json:"requester"`
	Entity        string                `json:"entity,omitempty"`
	Items         []domain.LineItem     `json:"items"`
	Status        string                `json:"status"`
	Approvals     domain.ApprovalStatus `json:"approvalStatus"`
	Revision      int64                 `json:"revision"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ToCreateInput converts the transport payload into a use-case input.
func ToCreateInput(payload CreateRequestPayload) reqtypes.CreateRequestInput {
	return reqtypes.CreateRequestInput{
		RequestNumber: payload.RequestNumber,
		Requester:     payload.Requester,
		Entity:        payload.Entity,
		Items:         payload.Items,
	}
}

// ToSubmitInput converts the transport payload into a use-case input.
func ToSubmitInput(requestNumber string, payload SubmitPayload) reqtypes.SubmitInput {
	return reqtypes.SubmitInput{
		RequestNumber: requestNumber,
		Requester:     payload.Requester,
		Items:         payload.Items,
	}
}

// ToDecideInput parses the wire-level stage and outcome names.
func ToDecideInput(requestNumber string, payload DecisionPayload) (reqtypes.DecideInput, error) {
	stage, err := domain.ParseStage(payload.Stage)
	if err != nil {
		return reqtypes.DecideInput{}, err
	}
	outcome, err := domain.ParseOutcome(payload.Outcome)
	if err != nil {
		return reqtypes.DecideInput{}, err
	}
	return reqtypes.DecideInput{
		RequestNumber: requestNumber,
		Stage:         stage,
		Outcome:       outcome,
		Feedback:      payload.Feedback,
	}, nil
}

// FromProjection converts a stored record into the transport representation.
func FromProjection(proj *reqtypes.RequestProjection) RequestResponse {
	if proj == nil || proj.Entity == nil {
		return RequestResponse{}
	}
	record := proj.Entity
	return RequestResponse{
		ID:            record.ID,
		RequestNumber: record.RequestNumber,
		Requester:     record.Requester,
		Entity:        record.Entity,
		Items:         append([]domain.LineItem{}, record.Items...),
		Status:        string(record.Status),
		Approvals:     record.Approvals,
		Revision:      proj.Metadata.Revision,
		CreatedAt:     proj.Metadata.CreatedAt,
		UpdatedAt:     proj.Metadata.UpdatedAt,
	}
}

// FromProjectionList converts a projection slice for queue views.
func FromProjectionList(projs []*reqtypes.RequestProjection) []RequestResponse {
	result := make([]RequestResponse, 0, len(projs))
	for _, proj := range projs {
		result = append(result, FromProjection(proj))
	}
	return result
}
