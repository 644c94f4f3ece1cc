package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reqhttpmapper "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/http/mapper"
	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	reqports "github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
)

// RequestAPI wires HTTP transport with the request lifecycle service.
type RequestAPI struct {
	service reqports.Service
}

// NewRequestAPI creates a RequestAPI backed by the provided service.
func NewRequestAPI(service reqports.Service) RequestAPI {
	return RequestAPI{service: service}
}

// Post /v1/requests
// Open a new purchase request
func (api *RequestAPI) CreateRequest(c *gin.Context) {
	var payload reqhttpmapper.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.CreateRequest(c.Request.Context(), reqhttpmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reqhttpmapper.FromProjection(saved))
}

// Put /v1/requests/:requestNumber
// Re-submit a request with an edited item list; the approval chain restarts
func (api *RequestAPI) SubmitRequest(c *gin.Context) {
	var payload reqhttpmapper.SubmitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := reqhttpmapper.ToSubmitInput(c.Param("requestNumber"), payload)
	saved, err := api.service.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqhttpmapper.FromProjection(saved))
}

// Post /v1/requests/:requestNumber/decisions
// Record one stage actor's decision
func (api *RequestAPI) RecordDecision(c *gin.Context) {
	var payload reqhttpmapper.DecisionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := reqhttpmapper.ToDecideInput(c.Param("requestNumber"), payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.Decide(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqhttpmapper.FromProjection(saved))
}

// Get /v1/requests/:requestNumber
// Detail view for one request
func (api *RequestAPI) GetRequest(c *gin.Context) {
	result, err := api.service.GetByNumber(c.Request.Context(), reqtypes.RequestIdentifier{RequestNumber: c.Param("requestNumber")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqhttpmapper.FromProjection(result))
}

// Get /v1/requests
// Queue view; repeatable status query params filter, none means everything
func (api *RequestAPI) ListRequests(c *gin.Context) {
	statuses := c.QueryArray("status")
	var err error
	var result []*reqtypes.RequestProjection
	if len(statuses) == 0 {
		result, err = api.service.List(c.Request.Context())
	} else {
		result, err = api.service.ListByStatus(c.Request.Context(), statuses)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqhttpmapper.FromProjectionList(result))
}
