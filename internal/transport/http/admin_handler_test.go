package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/infra/memory"
)

func newAdminServer(t *testing.T) *httptest.Server {
	t.Helper()
	gateway := app.NewGateway(memory.NewKVStore())
	handler := NewAdminHandler(app.NewAdminService(gateway, app.NewPlayerFactory()), memory.NewSessionStore(), nil)
	mux := http.NewServeMux()
	handler.Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAdminPlayersLifecycle(t *testing.T) {
	server := newAdminServer(t)

	resp := do(t, http.MethodPost, server.URL+"/admin/players", []byte(`{"name":"Bi"}`))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var player domain.Player
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = do(t, http.MethodDelete, server.URL+"/admin/players/"+player.ID, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 without confirmation, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, server.URL+"/admin/players/"+player.ID+"?confirm=true", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, server.URL+"/admin/players/"+player.ID+"?confirm=true", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for a deleted player, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/admin/players", nil)
	var players []domain.Player
	if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected empty roster, got %+v", players)
	}
}

func TestAdminAddPlayerValidation(t *testing.T) {
	server := newAdminServer(t)
	resp := do(t, http.MethodPost, server.URL+"/admin/players", []byte(`{"name":""}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, server.URL+"/admin/players", []byte(`{"name":"   "}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a blank name, got %d", resp.StatusCode)
	}
}

func TestAdminImportExport(t *testing.T) {
	server := newAdminServer(t)

	resp := do(t, http.MethodGet, server.URL+"/admin/questions/export", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "questions.json") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	var exported bytes.Buffer
	if _, err := exported.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read export: %v", err)
	}

	resp = do(t, http.MethodPost, server.URL+"/admin/questions/import", []byte(`{"broken":`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed import, got %d", resp.StatusCode)
	}
	var fail errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fail.Error != "Lỗi định dạng file!" {
		t.Fatalf("unexpected error %q", fail.Error)
	}

	resp = do(t, http.MethodPost, server.URL+"/admin/questions/import", exported.Bytes())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var ok messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok.Message != "Import thành công!" || ok.Count != 15 {
		t.Fatalf("unexpected import response %+v", ok)
	}
}

func TestLeaderboardAndHealth(t *testing.T) {
	server := newAdminServer(t)
	for _, name := range []string{"Bi", "Na", "Tí", "Tèo"} {
		do(t, http.MethodPost, server.URL+"/admin/players", []byte(`{"name":"`+name+`"}`))
	}

	resp := do(t, http.MethodGet, server.URL+"/leaderboard", nil)
	var top []domain.Player
	if err := json.NewDecoder(resp.Body).Decode(&top); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected top 3, got %d", len(top))
	}

	resp = do(t, http.MethodGet, server.URL+"/leaderboard?limit=zero", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected healthy, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/admin/sessions", nil)
	var live map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&live); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if live["live"] != 0 {
		t.Fatalf("expected no live sessions, got %v", live)
	}
}
