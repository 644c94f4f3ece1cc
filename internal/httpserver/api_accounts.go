package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	acchttpmapper "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/http/mapper"
	accdomain "github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	accports "github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
	"github.com/adiwjy/go-procurement-api/internal/routing"
	apierrors "github.com/adiwjy/go-procurement-api/internal/shared/errors"
)

// PrincipalHeader carries the authenticated principal's ID. The identity
// provider in front of this service sets it; an empty value means no session.
const PrincipalHeader = "X-Principal-Id"

// AccountAPI wires HTTP transport with the account service.
type AccountAPI struct {
	service accports.Service
}

// NewAccountAPI creates an AccountAPI backed by the provided service.
func NewAccountAPI(service accports.Service) AccountAPI {
	return AccountAPI{service: service}
}

func principalID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(PrincipalHeader))
	if id == "" {
		responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing principal header"))
		return "", false
	}
	return id, true
}

// Post /v1/auth/login
// Establish a session for the principal and resolve the landing route
func (api *AccountAPI) Login(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	session, resolved, err := api.service.Login(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acchttpmapper.FromLogin(session, resolved))
}

// Post /v1/auth/logout
// Drop the principal's session
func (api *AccountAPI) Logout(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	if err := api.service.Logout(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/auth/register
// Self-registration for a pre-registered employee
func (api *AccountAPI) Register(c *gin.Context) {
	var payload acchttpmapper.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.Register(c.Request.Context(), acchttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acchttpmapper.FromAccount(saved))
}

// Get /v1/auth/nik/:nik
// Check whether a NIK may register
func (api *AccountAPI) LookupNIK(c *gin.Context) {
	entry, err := api.service.LookupNIK(c.Request.Context(), c.Param("nik"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acchttpmapper.FromDirectoryEntry(entry))
}

// Get /v1/profile
// Resolve the principal's active profile and landing route
func (api *AccountAPI) ResolveProfile(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	resolved, err := api.service.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acchttpmapper.FromResolvedProfile(resolved))
}

// Put /v1/profile/selection
// Switch the principal's active profile
func (api *AccountAPI) SwitchProfile(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	var payload acchttpmapper.SwitchProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	resolved, err := api.service.SwitchProfile(c.Request.Context(), id, payload.Index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acchttpmapper.FromResolvedProfile(resolved))
}

// Get /v1/account
// Full account view for the signed-in principal
func (api *AccountAPI) GetAccount(c *gin.Context) {
	id, ok := principalID(c)
	if !ok {
		return
	}
	account, err := api.service.GetByPrincipal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acchttpmapper.FromAccount(account))
}

// Get /v1/navigation
// Where a navigation attempt should land given the session state
func (api *AccountAPI) Navigate(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		responder.Respond(c, apierrors.ErrBadRequest.WithDetail("path query parameter is required"))
		return
	}

	id := strings.TrimSpace(c.GetHeader(PrincipalHeader))
	var role accdomain.Role
	authenticated := id != ""
	if authenticated {
		resolved, err := api.service.Resolve(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		role = resolved.Profile.Role
	}

	redirect, err := routing.Redirect(path, authenticated, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "redirect": redirect})
}
