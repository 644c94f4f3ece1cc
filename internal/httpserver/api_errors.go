package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accapp "github.com/adiwjy/go-procurement-api/internal/domains/accounts/application"
	accdomain "github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	accports "github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	reqapp "github.com/adiwjy/go-procurement-api/internal/domains/requests/application"
	reqdomain "github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	reqports "github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
	"github.com/adiwjy/go-procurement-api/internal/routing"
	apierrors "github.com/adiwjy/go-procurement-api/internal/shared/errors"
)

// responder maps domain and application errors to RFC 7807 problems. Order
// matters: the most specific mappers run first.
var responder = apierrors.NewChainedResponder("",
	mapValidationError,
	mapRequestError,
	mapAccountError,
)

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	var itemsErr *reqdomain.ItemsValidationError
	if errors.As(err, &itemsErr) {
		return apierrors.NewValidationProblem(itemsErr.Fields), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapRequestError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, reqports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, reqports.ErrDuplicateNumber):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, reqports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, reqports.ErrAmbiguousResult):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	case errors.Is(err, reqdomain.ErrOutOfOrderStage):
		return apierrors.ErrStageOrder.WithDetail(err.Error()), true
	case errors.Is(err, reqdomain.ErrNotInProgress),
		errors.Is(err, reqdomain.ErrTerminalStatus):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, reqdomain.ErrNotOwner):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, reqapp.ErrTransitionInFlight):
		return apierrors.ErrBusy.WithDetail(err.Error()), true
	case errors.Is(err, reqapp.ErrStoreTimeout):
		return apierrors.ErrTimeout.WithDetail(err.Error()), true
	case errors.Is(err, reqapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAccountError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, accports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, accports.ErrAlreadyExists),
		errors.Is(err, accdomain.ErrNIKTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, accdomain.ErrNIKNotRegistered),
		errors.Is(err, accdomain.ErrRoleNotEligible):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, accdomain.ErrInvalidProfileIndex),
		errors.Is(err, accdomain.ErrInvalidAccount),
		errors.Is(err, accapp.ErrInvalidInput),
		errors.Is(err, routing.ErrUnmappedRole):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondError maps a service error to a problem response.
func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondBadRequest reports a malformed payload before it reaches a service.
func respondBadRequest(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusBadRequest)
		return
	}
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
