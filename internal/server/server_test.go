package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/jonathan/recruit-tracker/internal/dashboard"
	"github.com/jonathan/recruit-tracker/internal/server/ratelimit"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	handler http.Handler
	store   *store.Store
}

func newTestServer(t *testing.T, limits *ratelimit.Config) *testServer {
	t.Helper()

	passwords := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
	hash, err := passwords.HashPassword(testPassword)
	require.NoError(t, err)

	cfg := &config.Config{
		DataDir: t.TempDir(),
		Format:  store.FormatCSV,
		Operators: []config.Operator{
			{Email: "admin@example.com", Name: "Admin", Role: dashboard.RoleAdmin, PasswordHash: hash},
			{Email: "ana@example.com", Name: "Ana", Role: dashboard.RoleRecruiter, PasswordHash: hash},
			{Email: "vic@example.com", Name: "Vic", Role: dashboard.RoleViewer, PasswordHash: hash},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(context.Background(), cfg.DataDir,
		store.WithFormat(cfg.Format),
		store.WithLogger(logger),
		store.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	if limits == nil {
		limits = &ratelimit.Config{Enabled: false}
	}
	srv, err := New(Deps{
		Store:     st,
		Config:    cfg,
		JWT:       &config.JWTConfig{Secret: testSecret, ExpirationHours: 1, Issuer: config.DefaultJWTIssuer},
		Passwords: passwords,
		RateLimit: limits,
		Logger:    logger,
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, handler: srv.Handler(), store: st}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("success", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/login", "", map[string]string{"email": "  ANA@example.com ", "password": testPassword})
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeBody[LoginResponse](t, w)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, testNow.Add(time.Hour).Equal(resp.ExpiresAt))
		assert.Equal(t, dashboard.Identity{Email: "ana@example.com", Name: "Ana", Role: dashboard.RoleRecruiter}, resp.Identity)
	})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "wrong password", body: map[string]string{"email": "ana@example.com", "password": "nope-nope"}, status: http.StatusUnauthorized},
		{name: "unknown operator", body: map[string]string{"email": "eve@example.com", "password": testPassword}, status: http.StatusUnauthorized},
		{name: "invalid email", body: map[string]string{"email": "not-an-email", "password": testPassword}, status: http.StatusBadRequest},
		{name: "missing password", body: map[string]string{"email": "ana@example.com"}, status: http.StatusBadRequest},
		{name: "invalid JSON", body: "{", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/login", "", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "token")
		})
	}

	t.Run("same message for unknown and wrong", func(t *testing.T) {
		unknown := ts.do(t, http.MethodPost, "/login", "", map[string]string{"email": "eve@example.com", "password": testPassword})
		wrong := ts.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ana@example.com", "password": "nope-nope"})
		assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/me", "/overview", "/metrics", "/charts/funnel", "/follow-ups", "/integrity", "/candidates"} {
		t.Run(path, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = ts.do(t, http.MethodGet, path, "garbage", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMe(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "vic@example.com")

	w := ts.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dashboard.RoleViewer, decodeBody[dashboard.Identity](t, w).Role)
}

func TestCandidateCRUD(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "ana@example.com")

	w := ts.do(t, http.MethodPost, "/candidates", token, map[string]any{
		"name": "Jane Doe", "position": "Engineer", "status": "Open", "client": "Acme", "applied_date": "2024-06-20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decodeBody[map[string]any](t, w)["id"])

	w = ts.do(t, http.MethodPost, "/candidates", token, map[string]any{
		"name": "John <b>Roe</b>", "position": "Designer", "status": "Hired", "client": "Globex",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decodeBody[map[string]any](t, w)["id"])

	rows, err := ts.store.LoadCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "John Roe", rows[1].Name)

	t.Run("list with filter", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/candidates?status=Hired", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Rows []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"rows"`
			Count int `json:"count"`
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 2, resp.Rows[0].ID)
	})

	t.Run("options", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/candidates/options", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"clients":["Acme","Globex"],"statuses":["Hired","Open"],"positions":["Designer","Engineer"]}`, w.Body.String())
	})

	t.Run("update", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/candidates/1", token, map[string]any{"status": "Interview"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		rows, err := ts.store.LoadCandidates(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, "Interview", rows[0].Status)
		assert.Equal(t, "Jane Doe", rows[0].Name)
	})

	t.Run("update missing row", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/candidates/99", token, map[string]any{"status": "Interview"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update bad id", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/candidates/abc", token, map[string]any{"status": "Interview"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := ts.do(t, http.MethodDelete, "/candidates/2", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decodeBody[map[string]any](t, w)["removed"])

		w = ts.do(t, http.MethodDelete, "/candidates/2", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 0, decodeBody[map[string]any](t, w)["removed"])
	})
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "admin@example.com")

	tests := []struct {
		name string
		path string
		body any
	}{
		{name: "candidate without name", path: "/candidates", body: map[string]any{"position": "Engineer", "status": "Open"}},
		{name: "candidate with unknown status", path: "/candidates", body: map[string]any{"name": "A", "position": "B", "status": "Ghosted"}},
		{name: "candidate with bad date", path: "/candidates", body: map[string]any{"name": "A", "position": "B", "status": "Open", "applied_date": "someday"}},
		{name: "unknown field", path: "/candidates", body: map[string]any{"name": "A", "position": "B", "status": "Open", "salary": 1}},
		{name: "interview without candidate", path: "/interviews", body: map[string]any{"interviewer": "Bob", "status": "Scheduled"}},
		{name: "client with negative positions", path: "/clients", body: map[string]any{"name": "Acme", "active_positions": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, tt.path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	rows, err := ts.store.LoadCandidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestViewerIsReadOnly(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "vic@example.com")

	w := ts.do(t, http.MethodPost, "/clients", token, map[string]any{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodDelete, "/clients/1", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/clients", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func seedDashboard(t *testing.T, ts *testServer, token string) {
	t.Helper()
	requests := []struct {
		path string
		body map[string]any
	}{
		{"/clients", map[string]any{"name": "Acme", "industry": "Tech", "active_positions": 2, "total_hires": 1}},
		{"/candidates", map[string]any{"name": "Jane", "position": "Engineer", "status": "Open", "client": "Acme", "applied_date": "2024-06-20"}},
		{"/candidates", map[string]any{"name": "John", "position": "Designer", "status": "Hired", "client": "Acme", "applied_date": "2024-01-10"}},
		{"/interviews", map[string]any{"candidate_id": 1, "interviewer": "Bob", "date": "2024-07-02", "status": "Scheduled"}},
	}
	for _, r := range requests {
		w := ts.do(t, http.MethodPost, r.path, token, r.body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestDashboardViews(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "ana@example.com")
	seedDashboard(t, ts, token)

	t.Run("metrics", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/metrics", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		kpis := decodeBody[map[string]any](t, w)
		assert.EqualValues(t, 2, kpis["total_candidates"])
		assert.EqualValues(t, 1, kpis["recent_candidates"])
		assert.EqualValues(t, 1, kpis["open_positions"])
		assert.EqualValues(t, 1, kpis["active_interviews"])
		assert.EqualValues(t, 50, kpis["success_rate"])
	})

	t.Run("overview", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/overview?status=Hired", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var o dashboard.Overview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
		assert.Equal(t, 2, o.KPIs.TotalCandidates)
		assert.Equal(t, []string{"Currently 1 open positions: Engineer"}, o.Notifications)
		require.Len(t, o.Positions, 1)
		assert.Equal(t, "Designer", o.Positions[0].Position)
		require.Len(t, o.Timeline, 1)
	})

	t.Run("chart", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/charts/funnel", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"chart":"funnel","series":[
			{"stage":"Applied","count":2},
			{"stage":"In Progress","count":0},
			{"stage":"Interview","count":0},
			{"stage":"Hired","count":1}]}`, w.Body.String())
	})

	t.Run("chart with no matching rows", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/charts/positions?client=Nobody", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"chart":"positions","empty":true}`, w.Body.String())
	})

	t.Run("unknown chart", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/charts/pie", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("follow-ups", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/follow-ups", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var followUps []struct {
			CandidateID int `json:"candidate_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &followUps))
		require.Len(t, followUps, 1)
		assert.Equal(t, 1, followUps[0].CandidateID)
	})

	t.Run("integrity", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/integrity", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func uploadRequest(t *testing.T, path, token, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadAndExport(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "admin@example.com")

	csvData := "id,name,industry,active_positions,total_hires\n1,Acme,Tech,3,10\n2,Globex,Finance,0,4\n"
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, uploadRequest(t, "/clients/upload", token, "clients.csv", csvData))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeBody[store.ImportResult](t, w)
	assert.Equal(t, store.Clients, result.Table)
	assert.Equal(t, 2, result.Rows)
	assert.Empty(t, result.Warnings)

	t.Run("csv export", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/clients/export?format=csv", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "clients.csv")
		assert.Equal(t, csvData, w.Body.String())
	})

	t.Run("json export", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/clients/export?format=json", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Globex"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/clients/export?format=ods", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed upload keeps table", func(t *testing.T) {
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, uploadRequest(t, "/clients/upload", token, "clients.csv", "name\nOnly names\n"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		rows, err := ts.store.LoadClients(context.Background())
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("missing file field", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/clients/upload", token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUploadTooLarge(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login(t, "admin@example.com")
	csvData := "id,name,industry,active_positions,total_hires\n" +
		strings.Repeat("x", maxUploadBody) + "\n"

	t.Run("declared length", func(t *testing.T) {
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, uploadRequest(t, "/clients/upload", token, "clients.csv", csvData))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("streamed body", func(t *testing.T) {
		req := uploadRequest(t, "/clients/upload", token, "clients.csv", csvData)
		req.Body = io.NopCloser(io.MultiReader(req.Body))
		req.ContentLength = -1

		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	rows, err := ts.store.LoadClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoginRateLimited(t *testing.T) {
	limits := ratelimit.Defaults()
	limits.CleanupInterval = 0
	ts := newTestServer(t, limits)

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = ts.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ana@example.com", "password": "wrong-password"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
