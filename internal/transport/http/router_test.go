package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"badbaado/internal/admin"
	"badbaado/internal/auth"
	"badbaado/internal/donation"
	"badbaado/internal/hospital"
	"badbaado/internal/match"
	"badbaado/internal/notify"
	"badbaado/internal/platform/metrics"
	"badbaado/internal/request"
	"badbaado/internal/settings"
	"badbaado/internal/user"
)

// newTestRouter wires the full service graph against memory stores, the same
// shape main builds.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	m := metrics.NewWith(prometheus.NewRegistry())
	logger := slog.New(slog.DiscardHandler)

	userStore := user.NewMemoryStore()
	adminStore := admin.NewMemoryStore()
	donationStore := donation.NewMemoryStore()
	inboxStore := notify.NewMemoryStore()

	hasher := auth.NewHasher(bcrypt.MinCost)
	revocation := auth.NewMemoryRevocationList()
	tokens := auth.NewTokenService("test-signing-key", time.Hour, revocation)

	dispatcher := notify.NewDispatcher(notify.NewMemorySender(), inboxStore,
		notify.NewCircuitBreaker(0, 0), 16, 2, m, logger)

	userSvc := user.NewService(userStore, hasher, revocation, time.Hour, m, logger)
	adminSvc := admin.NewService(adminStore, hasher, userStore, nil, donationStore, logger)
	requestSvc := request.NewService(request.NewMemoryStore(),
		match.NewMatcher(userStore, m), dispatcher, adminSvc, 0, m, logger)
	donationSvc := donation.NewService(donationStore, userStore, requestSvc,
		dispatcher, nil, m, logger)
	requestSvc.SetDonationBook(donationSvc)
	adminSvc.SetRequestCounter(requestSvc)

	h := NewHandler(Config{
		Users:     userSvc,
		Admins:    adminSvc,
		Requests:  requestSvc,
		Donations: donationSvc,
		Hospitals: hospital.NewService(hospital.NewMemoryStore()),
		Settings:  settings.NewService(settings.NewMemoryStore()),
		Inbox:     inboxStore,
		Tokens:    tokens,
		Metrics:   m,
		Logger:    logger,
	})
	return NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(context.Background()))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerDonor(t *testing.T, router http.Handler, phone string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register/user", "", map[string]any{
		"fullName":  "Hodan Ali",
		"phone":     phone,
		"password":  "hunter2!",
		"gender":    "FEMALE",
		"age":       28,
		"location":  "Mogadishu",
		"bloodType": "O_POSITIVE",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func registerAdmin(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register/admin", "", map[string]any{
		"email":        "staff@badbaado.so",
		"password":     "hunter2!",
		"fullName":     "Faduma Hassan",
		"phone":        "252611234567",
		"organization": "Somali Red Crescent",
		"position":     "Coordinator",
		"role":         "ADMIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func createRequest(t *testing.T, router http.Handler, token string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/requests", token, map[string]any{
		"fullName":    "Asha Omar",
		"phone":       "252611111111",
		"gender":      "FEMALE",
		"age":         34,
		"location":    "Mogadishu",
		"hospital":    "Banadir Hospital",
		"bloodType":   "O_POSITIVE",
		"urgency":     "HIGH",
		"description": "Post-surgery transfusion",
		"maxDonors":   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["request"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register then login", func(t *testing.T) {
		registerDonor(t, router, "252615550100")

		rec := doJSON(t, router, http.MethodPost, "/api/auth/login/user", "", map[string]any{
			"phone":    "252615550100",
			"password": "hunter2!",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["token"])
		userView := body["user"].(map[string]any)
		assert.Equal(t, "Hodan Ali", userView["fullName"])
		_, exposed := userView["passwordHash"]
		assert.False(t, exposed)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login/user", "", map[string]any{
			"phone":    "252615550100",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login/user", "", map[string]any{
			"phone":    "252615550100",
			"password": "hunter2!",
			"isAdmin":  true,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login/user", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthGates(t *testing.T) {
	router := newTestRouter(t)
	userToken := registerDonor(t, router, "252615550100")
	adminToken := registerAdmin(t, router)

	t.Run("protected route without token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user token admits donor routes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/profile", userToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user token cannot reach admin routes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/admin/dashboard", userToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token cannot reach donor routes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/profile", adminToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token admits the dashboard", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		stats := decodeBody(t, rec)["stats"].(map[string]any)
		assert.Equal(t, float64(1), stats["totalUsers"])
	})
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	requesterToken := registerDonor(t, router, "252615550100")
	donorToken := registerDonor(t, router, "252615550101")
	adminToken := registerAdmin(t, router)

	requestID := createRequest(t, router, requesterToken)

	t.Run("pending feed is public", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/requests/pending", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["requests"], 1)
	})

	t.Run("admin approves", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/requests/"+requestID+"/approve", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, "APPROVED", body["request"].(map[string]any)["status"])
		// Both donors share the blood type and location.
		assert.Equal(t, float64(2), body["eligibleDonorsCount"])
	})

	t.Run("re-approval conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/requests/"+requestID+"/approve", adminToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("matched donor sees the alert in the inbox", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/notifications", donorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, decodeBody(t, rec)["notifications"])
	})

	t.Run("donor responds and the threshold completes the request", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/donations", donorToken, map[string]any{
			"requestId": requestID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["requestCompleted"])

		got := doJSON(t, router, http.MethodGet, "/api/requests/"+requestID, donorToken, nil)
		require.Equal(t, http.StatusOK, got.Code)
		assert.Equal(t, "COMPLETED", decodeBody(t, got)["request"].(map[string]any)["status"])
	})

	t.Run("donor eligibility reflects the completed donation", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/eligibility", donorToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["isEligible"])
		assert.Equal(t, float64(1), body["totalDonations"])
	})

	t.Run("request stats are public", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/requests/stats", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["totalRequests"])
		assert.Equal(t, float64(1), body["completedRequests"])
	})
}

func TestCancelOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	ownerToken := registerDonor(t, router, "252615550100")
	otherToken := registerDonor(t, router, "252615550101")
	requestID := createRequest(t, router, ownerToken)

	t.Run("stranger cannot cancel", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/requests/"+requestID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner cancels", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/requests/"+requestID, ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "CANCELLED", decodeBody(t, rec)["request"].(map[string]any)["status"])
	})
}

func TestUserCountIsPublic(t *testing.T) {
	router := newTestRouter(t)
	registerDonor(t, router, "252615550100")
	registerDonor(t, router, "252615550101")

	rec := doJSON(t, router, http.MethodGet, "/api/users/count", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["totalUsers"])
}

func TestHospitalAdministration(t *testing.T) {
	router := newTestRouter(t)
	userToken := registerDonor(t, router, "252615550100")
	adminToken := registerAdmin(t, router)

	t.Run("only admins register hospitals", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/hospitals", userToken, map[string]any{
			"name": "Banadir Hospital", "phone": "252612222222", "location": "Mogadishu",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("registered hospitals appear in the donor list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/hospitals", adminToken, map[string]any{
			"name": "Banadir Hospital", "phone": "252612222222", "location": "Mogadishu",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		list := doJSON(t, router, http.MethodGet, "/api/hospitals", userToken, nil)
		require.Equal(t, http.StatusOK, list.Code)
		assert.Len(t, decodeBody(t, list)["hospitals"], 1)
	})
}

func TestSettingsOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerAdmin(t, router)

	rec := doJSON(t, router, http.MethodPut, "/api/admin/settings/max_donors_default", adminToken, map[string]any{
		"value":       "5",
		"description": "Default donor threshold",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list := doJSON(t, router, http.MethodGet, "/api/admin/settings", adminToken, nil)
	require.Equal(t, http.StatusOK, list.Code)
	settingsList := decodeBody(t, list)["settings"].([]any)
	require.Len(t, settingsList, 1)
	assert.Equal(t, "max_donors_default", settingsList[0].(map[string]any)["key"])
}
