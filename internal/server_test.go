package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"radio-fleet-console/internal/config"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *testutil.FakeStore) {
	t.Helper()
	f := testutil.NewFakeStore(t)
	cfg := &config.Config{
		StoreURL:     f.URL(),
		StoreAPIKey:  testutil.APIKey,
		ListenAddr:   ":0",
		JWTSecret:    "test-secret-key-that-is-long-enough",
		JWTIssuer:    "radio-fleet-console",
		JWTAudience:  "radio-fleet-console",
		JWTExpiry:    time.Hour,
		StoreTimeout: 5 * time.Second,
	}
	return NewServer(cfg), f
}

func token(t *testing.T, s *Server, roles ...string) string {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{"beheerder"}
	}
	tok, err := s.JWTManager.GenerateToken("beheer", roles)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, s *Server, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func radioPayload(id string) map[string]any {
	return map[string]any{
		"id": id, "merk": "Motorola", "model": "R7", "type": "Portable",
		"serienummer": "sn-" + id, "alias": "Alpha " + id, "afdeling": "Brandweer",
	}
}

func TestHealthIsPublic(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, "GET", "/radios", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, "GET", "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRadioCRUD(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	w := do(t, s, "POST", "/radios", tok, radioPayload("1001"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Radio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "SN-1001", created.Serienummer)

	w = do(t, s, "GET", "/radios", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var radios []models.Radio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &radios))
	require.Len(t, radios, 1)

	w = do(t, s, "GET", "/radios/1001", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, "PATCH", "/radios/1001", tok, map[string]any{"afdeling": "Politie"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Radio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Politie", updated.Afdeling)

	w = do(t, s, "DELETE", "/radios/1001", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, "GET", "/radios/1001", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRadioCreateValidation(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	payload := radioPayload("12")
	w := do(t, s, "POST", "/radios", tok, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "4 digits")

	payload = radioPayload("1001")
	payload["type"] = "Handheld"
	w = do(t, s, "POST", "/radios", tok, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Portable, Mobile or Base")

	payload = radioPayload("1001")
	payload["merk"] = ""
	w = do(t, s, "POST", "/radios", tok, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRadioIDImmutableViaPatch(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)

	w := do(t, s, "PATCH", "/radios/1001", tok, map[string]any{"id": "2002"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "change-id workflow")
}

func TestChangeDepartmentWorkflow(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)

	w := do(t, s, "POST", "/radios/1001/change-department", tok, map[string]any{
		"new_value": "Politie", "notes": "overdracht",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, "GET", "/radios/1001/history", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.RadioHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, models.ActionDepartmentChanged, history[0].Action)
	assert.Equal(t, "Afdeling gewijzigd van Brandweer naar Politie", history[0].Description)
}

func TestSearchFilter(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)
	payload := radioPayload("1002")
	payload["merk"] = "Kenwood"
	payload["afdeling"] = "Politie"
	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, payload).Code)

	w := do(t, s, "GET", "/radios?q=kenwood", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var radios []models.Radio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &radios))
	require.Len(t, radios, 1)
	assert.Equal(t, "1002", radios[0].ID)
}

func TestIssueListResolvesItemLabels(t *testing.T) {
	s, f := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)
	f.Seed("issues",
		map[string]any{
			"id": "i1", "item_type": "radio", "item_id": "1001",
			"afdeling": "Brandweer", "issued_to": "J. de Vries",
			"issued_at": "2025-01-03T10:00:00Z",
		},
		map[string]any{
			"id": "i2", "item_type": "radio", "item_id": "9999",
			"afdeling": "Politie", "issued_to": "P. Bakker",
			"issued_at": "2025-01-04T10:00:00Z",
		},
	)

	w := do(t, s, "GET", "/issues", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []struct {
		models.Issue
		ItemLabel string `json:"item_label"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)

	labels := map[string]string{}
	for _, v := range views {
		labels[v.ID] = v.ItemLabel
	}
	assert.Equal(t, "Motorola R7", labels["i1"])
	assert.Equal(t, "Onbekend item", labels["i2"], "dangling references render the placeholder")
}

func TestCheckRadioField(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)

	w := do(t, s, "GET", "/radios/check?field=id&value=1001", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dit ID is al in gebruik")

	w = do(t, s, "GET", "/radios/check?field=id&value=2002", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ID is beschikbaar")

	w = do(t, s, "GET", "/radios/check?field=serienummer&value=sn-1001", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dit serienummer is al in gebruik")

	w = do(t, s, "GET", "/radios/check?field=kleur&value=rood", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCSVExportAndTemplate(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)

	w := do(t, s, "GET", "/radios/export/csv", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "ID,Merk,Model,Type,Serienummer,Alias,Afdeling,Registratiedatum,Opmerking\n"))
	assert.Contains(t, w.Body.String(), "1001,Motorola,R7,Portable,SN-1001")

	w = do(t, s, "GET", "/radios/import/template", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ID,Merk,Model,Type,Serienummer,Alias,Afdeling,Registratiedatum,Opmerking\n", w.Body.String())
}

func TestImportRequiresRole(t *testing.T) {
	s, _ := newTestServer(t)

	csv := "ID,Merk,Model,Type,Serienummer,Alias,Afdeling,Registratiedatum,Opmerking\n" +
		"1001,Motorola,R7,Portable,SN-001,Alpha,Brandweer,2025-01-15,\n"

	viewer := token(t, s, "viewer")
	req := httptest.NewRequest("POST", "/radios/import/csv", strings.NewReader(csv))
	req.Header.Set("Authorization", "Bearer "+viewer)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := token(t, s, "beheerder")
	req = httptest.NewRequest("POST", "/radios/import/csv", strings.NewReader(csv))
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":1`)
}

func TestDashboardEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	tok := token(t, s)

	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/radios", tok, radioPayload("1001")).Code)

	w := do(t, s, "GET", "/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalRadios)
	assert.Equal(t, 1, stats.PortableRadios)
	assert.Len(t, stats.RecentRegistrations, 1)
}

func TestCatalogEndpoints(t *testing.T) {
	s, f := newTestServer(t)
	tok := token(t, s)

	w := do(t, s, "POST", "/brands", tok, map[string]any{"name": "Motorola"})
	require.Equal(t, http.StatusCreated, w.Code)
	var brand models.Brand
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &brand))

	w = do(t, s, "POST", "/categories", tok, map[string]any{"brand_id": brand.ID, "name": "Portable Radios"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))

	w = do(t, s, "POST", "/models", tok, map[string]any{"category_id": category.ID, "name": "R7"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, "GET", "/brands/radio", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var radioBrands []models.Brand
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &radioBrands))
	require.Len(t, radioBrands, 1)

	w = do(t, s, "GET", "/brands/"+brand.ID+"/radio-models", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mdls []models.Model
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mdls))
	require.Len(t, mdls, 1)
	assert.Equal(t, "R7", mdls[0].Name)

	w = do(t, s, "DELETE", "/brands/"+brand.ID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"brand_deleted":true`)
	assert.Empty(t, f.Rows("models"))
	assert.Empty(t, f.Rows("categories"))
}

func TestStoreFailureSurfacesStatus(t *testing.T) {
	s, f := newTestServer(t)
	tok := token(t, s)

	// Exhaust the read retry budget.
	f.FailNext(3)
	w := do(t, s, "GET", "/radios", tok, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
