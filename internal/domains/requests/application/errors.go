package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid request input")

// ErrTransitionInFlight signals a second transition was attempted on a
// request number while one is still outstanding.
var ErrTransitionInFlight = errors.New("a transition is already in flight for this request")

// ErrStoreTimeout signals the store boundary did not answer within the
// configured deadline; distinct from a rejected write.
var ErrStoreTimeout = errors.New("request store timed out")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidItems) ||
		errors.Is(err, domain.ErrEmptyRequestNumber) ||
		errors.Is(err, domain.ErrEmptyRequester) ||
		errors.Is(err, domain.ErrFeedbackRequired) ||
		errors.Is(err, domain.ErrUnknownStage) ||
		errors.Is(err, domain.ErrUnknownOutcome) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrStoreTimeout, err)
	}
	return err
}
