package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	accmemory "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/memory"
	accredis "github.com/adiwjy/go-procurement-api/internal/domains/accounts/adapters/redis"
	accapp "github.com/adiwjy/go-procurement-api/internal/domains/accounts/application"
	accdomain "github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	reqmemory "github.com/adiwjy/go-procurement-api/internal/domains/requests/adapters/memory"
	reqapp "github.com/adiwjy/go-procurement-api/internal/domains/requests/application"
	reqdomain "github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	apierrors "github.com/adiwjy/go-procurement-api/internal/shared/errors"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	directory := accmemory.NewDirectory(accdomain.DirectoryEntry{
		NIK:         "100234",
		NamaLengkap: "Andi Wijaya",
		Divisi:      "IT",
		Role:        accdomain.DirectoryRoleStaff,
	})
	handlers := ApiHandleFunctions{
		RequestAPI: NewRequestAPI(reqapp.NewService(reqmemory.NewRepository())),
		AccountAPI: NewAccountAPI(accapp.NewService(accmemory.NewRepository(), directory)),
	}
	return NewRouter(handlers)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func requestBody(number string) map[string]any {
	return map[string]any{
		"requestNumber": number,
		"requester":     "andi",
		"entity":        "PT Cyber",
		"items": []map[string]any{{
			"merk":            "Logitech",
			"detailSpecs":     "MX Keys S",
			"color":           "Graphite",
			"qty":             2,
			"uom":             "pcs",
			"linkRef":         "https://example.com/mx-keys-s",
			"budgetMax":       "1500000",
			"deliveryDate":    time.Now().AddDate(0, 0, 10).Format(time.RFC3339),
			"receiver":        "Andi",
			"deliveryAddress": reqdomain.KnownDeliveryAddresses[0],
		}},
	}
}

func TestCreateRequest_RoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/requests", requestBody("REQ-001"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		RequestNumber string `json:"requestNumber"`
		Status        string `json:"status"`
		Revision      int64  `json:"revision"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "REQ-001", created.RequestNumber)
	require.Equal(t, string(reqdomain.StatusInProgress), created.Status)
	require.EqualValues(t, 1, created.Revision)

	rec = doJSON(t, router, http.MethodGet, "/v1/requests/REQ-001", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRequest_ValidationProblem(t *testing.T) {
	router := newTestRouter(t)

	body := requestBody("REQ-001")
	body["items"].([]map[string]any)[0]["qty"] = 0

	rec := doJSON(t, router, http.MethodPost, "/v1/requests", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))

	var problem struct {
		Type       string `json:"type"`
		Extensions struct {
			Fields map[string]string `json:"fields"`
		} `json:"extensions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, apierrors.TypeValidation, problem.Type)
	require.Contains(t, problem.Extensions.Fields, "items[0].qty")
}

func TestDecisions_StageOrderEnforcedOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/requests", requestBody("REQ-001"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/requests/REQ-001/decisions",
		map[string]any{"stage": "releaser", "outcome": "Approved"}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	for _, stage := range []string{"checker", "approval", "releaser"} {
		rec = doJSON(t, router, http.MethodPost, "/v1/requests/REQ-001/decisions",
			map[string]any{"stage": stage, "outcome": "Approved"}, nil)
		require.Equal(t, http.StatusOK, rec.Code, stage)
	}

	var released struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &released))
	require.Equal(t, string(reqdomain.StatusReleased), released.Status)
}

func TestDecisions_UnknownStageIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/requests", requestBody("REQ-001"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/requests/REQ-001/decisions",
		map[string]any{"stage": "manager", "outcome": "Approved"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRequest_NotFoundProblem(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/requests/REQ-404", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRequests_StatusFilter(t *testing.T) {
	router := newTestRouter(t)

	for i := 1; i <= 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/v1/requests", requestBody(fmt.Sprintf("REQ-%03d", i)), nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(t, router, http.MethodPost, "/v1/requests/REQ-001/decisions",
		map[string]any{"stage": "checker", "outcome": "Rejected", "feedback": "budget"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/requests?status=Rejected", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		RequestNumber string `json:"requestNumber"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "REQ-001", list[0].RequestNumber)
}

func TestAccountEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]any{
		"principalId": "principal-1",
		"nik":         "100234",
		"email":       "andi@cyber.co.id",
		"entity":      "PT Cyber",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	headers := map[string]string{PrincipalHeader: "principal-1"}
	rec = doJSON(t, router, http.MethodGet, "/v1/profile", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var resolved struct {
		Route   string `json:"route"`
		Profile struct {
			Role string `json:"role"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resolved))
	require.Equal(t, "/requester/request-form", resolved.Route)
	require.Equal(t, string(accdomain.RoleRequester), resolved.Profile.Role)

	// No session means no profile.
	rec = doJSON(t, router, http.MethodGet, "/v1/profile", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// A used NIK can no longer register.
	rec = doJSON(t, router, http.MethodGet, "/v1/auth/nik/100234", nil, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestNavigation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/navigation?path=/requester/request-form", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var nav struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nav))
	require.Equal(t, "/auth/login", nav.Redirect)

	rec = doJSON(t, router, http.MethodGet, "/v1/navigation?path=/auth/login", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nav))
	require.Empty(t, nav.Redirect)
}

func TestNavigation_WrongDashboardRedirects(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]any{
		"principalId": "principal-2",
		"nik":         "100234",
		"email":       "rina@cyber.co.id",
		"entity":      "PT Cyber",
		"role":        string(accdomain.RoleChecker),
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	headers := map[string]string{PrincipalHeader: "principal-2"}
	rec = doJSON(t, router, http.MethodGet, "/v1/navigation?path=/requester/request-form", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var nav struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nav))
	require.Equal(t, "/requester/incoming-request", nav.Redirect)

	// The checker's own queue stands.
	rec = doJSON(t, router, http.MethodGet, "/v1/navigation?path=/requester/incoming-request", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nav))
	require.Empty(t, nav.Redirect)
}

func TestSessionEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	sessions := accredis.NewSessionStore(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	directory := accmemory.NewDirectory(accdomain.DirectoryEntry{
		NIK:         "100234",
		NamaLengkap: "Andi Wijaya",
		Divisi:      "IT",
		Role:        accdomain.DirectoryRoleStaff,
	})
	handlers := ApiHandleFunctions{
		RequestAPI: NewRequestAPI(reqapp.NewService(reqmemory.NewRepository())),
		AccountAPI: NewAccountAPI(accapp.NewService(accmemory.NewRepository(), directory,
			accapp.WithSessionStore(sessions),
		)),
	}
	router := NewRouter(handlers)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]any{
		"principalId": "principal-1",
		"nik":         "100234",
		"email":       "andi@cyber.co.id",
		"entity":      "PT Cyber",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	headers := map[string]string{PrincipalHeader: "principal-1"}
	rec = doJSON(t, router, http.MethodPost, "/v1/auth/login", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token   string `json:"token"`
		Profile struct {
			Route string `json:"route"`
		} `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	require.Equal(t, "/requester/request-form", login.Profile.Route)
	require.True(t, mr.Exists("session:principal-1"))

	// A second login rides the live session.
	rec = doJSON(t, router, http.MethodPost, "/v1/auth/login", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	require.Equal(t, login.Token, second.Token)

	rec = doJSON(t, router, http.MethodPost, "/v1/auth/logout", nil, headers)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, mr.Exists("session:principal-1"))

	rec = doJSON(t, router, http.MethodPost, "/v1/auth/login", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
