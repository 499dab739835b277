package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"testing"

	"github.com/eco-rangers/eco-rangers-api/internal/handlers"
	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"github.com/eco-rangers/eco-rangers-api/internal/routes"
	"github.com/eco-rangers/eco-rangers-api/internal/services"
	"github.com/eco-rangers/eco-rangers-api/internal/storage"
	"github.com/eco-rangers/eco-rangers-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores backing the services under test. The real implementations
// delegate uniqueness and id assignment to Postgres; these reproduce the same
// contract.

type memUsers struct {
	users  []models.User
	nextID uint
}

func (m *memUsers) Create(user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return store.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, *user)
	return nil
}

func (m *memUsers) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindByID(id uint) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copy := u
			return &copy, nil
		}
	}
	return nil, store.ErrNotFound
}

type memTokens struct {
	byHash map[string]models.AccessToken
	nextID uint
}

func (m *memTokens) Create(token *models.AccessToken) error {
	m.nextID++
	token.ID = m.nextID
	m.byHash[token.TokenHash] = *token
	return nil
}

func (m *memTokens) FindByHash(hash string) (*models.AccessToken, error) {
	token, ok := m.byHash[hash]
	if !ok {
		return nil, store.ErrNotFound
	}
	copy := token
	return &copy, nil
}

func (m *memTokens) DeleteByHash(hash string) error {
	if _, ok := m.byHash[hash]; !ok {
		return store.ErrNotFound
	}
	delete(m.byHash, hash)
	return nil
}

type memReports struct {
	reports map[uint]models.Report
	nextID  uint
}

func (m *memReports) List() ([]models.Report, error) {
	out := make([]models.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memReports) Get(id uint) (*models.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copy := r
	return &copy, nil
}

func (m *memReports) Create(report *models.Report) error {
	m.nextID++
	report.ID = m.nextID
	m.reports[report.ID] = *report
	return nil
}

func (m *memReports) UpdateStatus(id uint, status models.ReportStatus) (*models.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.Status = status
	m.reports[id] = r
	copy := r
	return &copy, nil
}

func (m *memReports) Delete(id uint) error {
	if _, ok := m.reports[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	blobs := storage.NewLocalStore(t.TempDir(), "http://test.local")

	authService := services.NewAuthService(&memUsers{}, &memTokens{byHash: make(map[string]models.AccessToken)})
	reportService := services.NewReportService(&memReports{reports: make(map[uint]models.Report)}, blobs)

	app := fiber.New(fiber.Config{BodyLimit: 5 * 1024 * 1024})
	app.Static("/storage", blobs.BaseDir())
	routes.Setup(app,
		authService,
		handlers.NewAuthHandler(authService),
		handlers.NewReportHandler(reportService),
		handlers.NewHealthHandler(nil),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
	return resp, decoded
}

func bearer(token string) map[string]string {
	return map[string]string{fiber.HeaderAuthorization: "Bearer " + token}
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/ping", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Registered", body["message"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	resp, body = doJSON(t, app, http.MethodGet, "/api/me", nil, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/logout", nil, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", body["message"])

	// The revoked token is dead.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/me", nil, bearer(token))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged in", body["message"])
	assert.NotEmpty(t, body["token"])
}

func TestMeWithoutTokenIsUnauthorized(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginWrongPasswordWordingMatchesUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "password1",
	}, nil)

	resp1, body1 := doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	}, nil)
	resp2, body2 := doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"email": "ghost@x.com", "password": "password1",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, resp1.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	assert.Equal(t, body1["message"], body2["message"])
}

func TestRegisterValidationPayload(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/register", map[string]string{
		"username": "ab", "email": "nope", "password": "short",
	}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func multipartReport(t *testing.T, fields map[string]string, fotoName, fotoType string, foto []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fotoName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="foto"; filename="%s"`, fotoName))
		header.Set("Content-Type", fotoType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(foto)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestReportLifecycle(t *testing.T) {
	app := newTestApp(t)
	photo := []byte("png-bytes")

	req := multipartReport(t, map[string]string{
		"judul":       "Tumpukan sampah",
		"deskripsi":   "Sampah menumpuk di pinggir jalan",
		"lokasi_text": "Jl. Merdeka",
		"lat":         "-6.2000000",
		"lng":         "106.8166667",
	}, "foto.png", "image/png", photo)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Pending", created["status"])
	assert.Equal(t, "Tumpukan sampah", created["judul"])

	fotoURL, _ := created["foto_url"].(string)
	require.NotEmpty(t, fotoURL)
	require.True(t, strings.HasPrefix(fotoURL, "http://test.local/storage/reports/"))

	id := int(created["id"].(float64))

	// The photo URL serves the uploaded bytes.
	storagePath := strings.TrimPrefix(fotoURL, "http://test.local")
	fileResp, err := app.Test(httptest.NewRequest(http.MethodGet, storagePath, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, fileResp.StatusCode)
	served, err := io.ReadAll(fileResp.Body)
	require.NoError(t, err)
	assert.Equal(t, photo, served)

	// Show and list.
	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/reports/%d", id), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fotoURL, body["foto_url"])

	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/reports", nil), -1)
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list, 1)

	// Status workflow.
	resp, body = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/reports/%d/status", id),
		map[string]string{"status": "Diproses"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Diproses", body["status"])

	resp, body = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/reports/%d/status", id),
		map[string]string{"status": "Bogus"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["errors"].(map[string]any), "status")

	// Delete removes the row and the blob.
	resp, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/reports/%d", id), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["deleted"])

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/reports/%d", id), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	fileResp, err = app.Test(httptest.NewRequest(http.MethodGet, storagePath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, fileResp.StatusCode)
}

func TestCreateReportRejectsBadPhoto(t *testing.T) {
	app := newTestApp(t)

	req := multipartReport(t, map[string]string{
		"judul": "x", "deskripsi": "y",
	}, "anim.gif", "image/gif", []byte("gif"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["errors"].(map[string]any), "foto")
}

func TestCreateReportRejectsNonNumericCoordinates(t *testing.T) {
	app := newTestApp(t)

	req := multipartReport(t, map[string]string{
		"judul": "x", "deskripsi": "y", "lat": "not-a-number",
	}, "", "", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["errors"].(map[string]any), "lat")
}

func TestReportNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/reports/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/reports/abc", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/reports/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/reports/999/status",
		map[string]string{"status": "Diproses"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
