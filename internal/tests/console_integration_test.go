//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"radio-fleet-console/internal"
	"radio-fleet-console/internal/config"
	"radio-fleet-console/internal/models"
	"radio-fleet-console/internal/testutil"
	"radio-fleet-console/internal/validation"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsole(t *testing.T) (*httptest.Server, *internal.Server, string) {
	t.Helper()
	store := testutil.NewFakeStore(t)

	cfg := &config.Config{
		StoreURL:     store.URL(),
		StoreAPIKey:  testutil.APIKey,
		JWTSecret:    "supersecretkeyforintegrationtestingonly",
		JWTIssuer:    "radio-fleet-console",
		JWTAudience:  "radio-fleet-console",
		JWTExpiry:    time.Hour,
		StoreTimeout: 5 * time.Second,
	}
	srv := internal.NewServer(cfg)

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	token, err := srv.JWTManager.GenerateToken("beheer", []string{"beheerder"})
	require.NoError(t, err)
	return ts, srv, token
}

func request(t *testing.T, ts *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var reqBody *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(buf)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRadioLifecycleOverHTTP(t *testing.T) {
	ts, _, token := newConsole(t)

	resp := request(t, ts, "POST", "/radios", token, map[string]any{
		"id": "1001", "merk": "Motorola", "model": "R7", "type": "Portable",
		"serienummer": "sn-001", "alias": "Alpha", "afdeling": "Brandweer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Radio](t, resp)
	assert.Equal(t, "SN-001", created.Serienummer)

	resp = request(t, ts, "GET", "/radios", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	radios := decode[[]models.Radio](t, resp)
	require.Len(t, radios, 1)

	resp = request(t, ts, "POST", "/radios/1001/change-department", token, map[string]any{
		"new_value": "Politie",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, ts, "GET", "/radios/1001/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]models.RadioHistory](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, "Afdeling gewijzigd van Brandweer naar Politie", history[0].Description)

	resp = request(t, ts, "DELETE", "/radios/1001", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, ts, "GET", "/radios/1001", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLiveValidationChannel(t *testing.T) {
	ts, _, token := newConsole(t)

	resp := request(t, ts, "POST", "/radios", token, map[string]any{
		"id": "1001", "merk": "Motorola", "model": "R7", "type": "Portable",
		"serienummer": "sn-001", "alias": "Alpha", "afdeling": "Brandweer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/radios/validate?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"field": "id", "value": "1001"}))

	type update struct {
		Field      string            `json:"field"`
		Normalized string            `json:"normalized"`
		Result     validation.Result `json:"result"`
	}

	// The channel echoes the current state immediately, then streams the
	// debounced check outcome.
	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		var u update
		require.NoError(t, conn.ReadJSON(&u))
		if u.Result.Status == validation.StatusValid || u.Result.Status == validation.StatusInvalid {
			assert.Equal(t, validation.StatusInvalid, u.Result.Status)
			assert.Equal(t, "Dit ID is al in gebruik", u.Result.Message)
			break
		}
	}

	// A free ID comes back valid.
	require.NoError(t, conn.WriteJSON(map[string]string{"field": "id", "value": "2002"}))
	for {
		var u update
		require.NoError(t, conn.ReadJSON(&u))
		if u.Result.Status == validation.StatusValid || u.Result.Status == validation.StatusInvalid {
			assert.Equal(t, validation.StatusValid, u.Result.Status)
			assert.Equal(t, "ID is beschikbaar", u.Result.Message)
			break
		}
	}
}

func TestWebsocketRejectsMissingToken(t *testing.T) {
	ts, _, _ := newConsole(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/radios/validate"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestImportExportRoundTripOverHTTP(t *testing.T) {
	ts, _, token := newConsole(t)

	csv := "ID,Merk,Model,Type,Serienummer,Alias,Afdeling,Registratiedatum,Opmerking\n" +
		"1001,Motorola,R7,Portable,SN-001,Alpha,Brandweer,2025-01-15,\n" +
		"1002,Kenwood,NX-1300,Mobile,SN-002,Bravo,Politie,2025-02-01,reserve\n"

	req, err := http.NewRequest("POST", ts.URL+"/radios/import/csv", strings.NewReader(csv))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/csv")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[map[string]any](t, resp)
	assert.Equal(t, float64(2), result["imported"])

	resp = request(t, ts, "GET", "/radios/export/csv", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1001,Motorola,R7,Portable,SN-001")
	assert.Contains(t, out.String(), "1002,Kenwood,NX-1300,Mobile,SN-002")
}
