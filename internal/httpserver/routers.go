// Package httpserver is the transport layer: gin handlers, the route table,
// and the error-to-problem mapping.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route binds an HTTP method and path to a handler.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is the whole route table.
type Routes []Route

// ApiHandleFunctions groups the per-context handler sets.
type ApiHandleFunctions struct {
	RequestAPI RequestAPI
	AccountAPI AccountAPI
}

// NewRouter returns a gin engine with the route table and the given
// middleware attached.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for _, route := range getRoutes(handleFunctions) {
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}

	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{
			Name:        "CreateRequest",
			Method:      http.MethodPost,
			Pattern:     "/v1/requests",
			HandlerFunc: handleFunctions.RequestAPI.CreateRequest,
		},
		{
			Name:        "ListRequests",
			Method:      http.MethodGet,
			Pattern:     "/v1/requests",
			HandlerFunc: handleFunctions.RequestAPI.ListRequests,
		},
		{
			Name:        "GetRequest",
			Method:      http.MethodGet,
			Pattern:     "/v1/requests/:requestNumber",
			HandlerFunc: handleFunctions.RequestAPI.GetRequest,
		},
		{
			Name:        "SubmitRequest",
			Method:      http.MethodPut,
			Pattern:     "/v1/requests/:requestNumber",
			HandlerFunc: handleFunctions.RequestAPI.SubmitRequest,
		},
		{
			Name:        "RecordDecision",
			Method:      http.MethodPost,
			Pattern:     "/v1/requests/:requestNumber/decisions",
			HandlerFunc: handleFunctions.RequestAPI.RecordDecision,
		},
		{
			Name:        "Login",
			Method:      http.MethodPost,
			Pattern:     "/v1/auth/login",
			HandlerFunc: handleFunctions.AccountAPI.Login,
		},
		{
			Name:        "Logout",
			Method:      http.MethodPost,
			Pattern:     "/v1/auth/logout",
			HandlerFunc: handleFunctions.AccountAPI.Logout,
		},
		{
			Name:        "Register",
			Method:      http.MethodPost,
			Pattern:     "/v1/auth/register",
			HandlerFunc: handleFunctions.AccountAPI.Register,
		},
		{
			Name:        "LookupNIK",
			Method:      http.MethodGet,
			Pattern:     "/v1/auth/nik/:nik",
			HandlerFunc: handleFunctions.AccountAPI.LookupNIK,
		},
		{
			Name:        "ResolveProfile",
			Method:      http.MethodGet,
			Pattern:     "/v1/profile",
			HandlerFunc: handleFunctions.AccountAPI.ResolveProfile,
		},
		{
			Name:        "SwitchProfile",
			Method:      http.MethodPut,
			Pattern:     "/v1/profile/selection",
			HandlerFunc: handleFunctions.AccountAPI.SwitchProfile,
		},
		{
			Name:        "GetAccount",
			Method:      http.MethodGet,
			Pattern:     "/v1/account",
			HandlerFunc: handleFunctions.AccountAPI.GetAccount,
		},
		{
			Name:        "Navigate",
			Method:      http.MethodGet,
			Pattern:     "/v1/navigation",
			HandlerFunc: handleFunctions.AccountAPI.Navigate,
		},
	}
}
