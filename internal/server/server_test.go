package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
	"reelchat/internal/recommend"
	"reelchat/internal/services"
)

type fakeEngine struct {
	result *recommend.Result
	err    error

	gotMessages []recommend.Message
}

func (f *fakeEngine) Respond(_ context.Context, messages []recommend.Message) (*recommend.Result, error) {
	f.gotMessages = messages
	return f.result, f.err
}

type fakeDetailer struct {
	item catalog.Item
	err  error

	gotKind catalog.MediaKind
	gotID   int64
}

func (f *fakeDetailer) Details(_ context.Context, kind catalog.MediaKind, id int64) (catalog.Item, error) {
	f.gotKind = kind
	f.gotID = id
	return f.item, f.err
}

type fakeReady struct{ ready bool }

func (f fakeReady) Ready() bool { return f.ready }

func newTestServer(engine Engine, details Detailer, ready ReadyChecker) *Server {
	return New("127.0.0.1:0", nil, engine, details, ready, logging.NewNop())
}

func postRespond(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/respond", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRespondReturnsRecommendationPayload(t *testing.T) {
	item := catalog.Item{"id": float64(603), "title": "The Matrix"}
	item.StampMediaType(catalog.MediaKindMovie)
	engine := &fakeEngine{
		result: &recommend.Result{
			Text:   "The Matrix fits that perfectly.",
			Items:  []catalog.Item{item},
			Query:  recommend.StructuredQuery{"with_genres": "878"},
			Intent: recommend.IntentMovie,
		},
	}
	srv := newTestServer(engine, &fakeDetailer{}, fakeReady{ready: true})

	rec := postRespond(t, srv, `{"messages": [{"role": "user", "text": "cyberpunk movies"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Fatal("missing request id header")
	}

	var payload struct {
		Response    string            `json:"response"`
		TMDBData    []map[string]any  `json:"tmdbData"`
		QueryParams map[string]string `json:"queryParams"`
		RequestType string            `json:"requestType"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Response != "The Matrix fits that perfectly." {
		t.Fatalf("response = %q", payload.Response)
	}
	if payload.RequestType != "movie" {
		t.Fatalf("requestType = %q", payload.RequestType)
	}
	if len(payload.TMDBData) != 1 || payload.TMDBData[0]["title"] != "The Matrix" {
		t.Fatalf("tmdbData = %v", payload.TMDBData)
	}
	if payload.QueryParams["with_genres"] != "878" {
		t.Fatalf("queryParams = %v", payload.QueryParams)
	}
	if len(engine.gotMessages) != 1 || engine.gotMessages[0].Text != "cyberpunk movies" {
		t.Fatalf("engine messages = %v", engine.gotMessages)
	}
}

func TestRespondOmitsCatalogFieldsForGeneralTurns(t *testing.T) {
	engine := &fakeEngine{
		result: &recommend.Result{Text: "Happy to help!", Intent: recommend.IntentOther},
	}
	srv := newTestServer(engine, &fakeDetailer{}, fakeReady{ready: true})

	rec := postRespond(t, srv, `{"messages": [{"role": "user", "text": "hello"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, field := range []string{"tmdbData", "queryParams", "requestType"} {
		if strings.Contains(body, field) {
			t.Errorf("general turn payload includes %q: %s", field, body)
		}
	}
}

func TestRespondRejectsBadRequests(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeDetailer{}, fakeReady{})

	if rec := postRespond(t, srv, `{"messages": []}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty messages status = %d", rec.Code)
	}
	if rec := postRespond(t, srv, `not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestRespondMapsEngineErrors(t *testing.T) {
	engine := &fakeEngine{
		err: services.Wrap(services.ErrValidation, "recommend", "respond", "conversation must contain at least one message", nil),
	}
	srv := newTestServer(engine, &fakeDetailer{}, fakeReady{})
	if rec := postRespond(t, srv, `{"messages": [{"role": "user", "text": "hi"}]}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	engine.err = errors.New("model exploded")
	if rec := postRespond(t, srv, `{"messages": [{"role": "user", "text": "hi"}]}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTitleDetailProxy(t *testing.T) {
	item := catalog.Item{"id": float64(603), "title": "The Matrix"}
	item.StampMediaType(catalog.MediaKindMovie)
	details := &fakeDetailer{item: item}
	srv := newTestServer(&fakeEngine{}, details, fakeReady{ready: true})

	req := httptest.NewRequest(http.MethodGet, "/title/movie/603", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if details.gotKind != catalog.MediaKindMovie || details.gotID != 603 {
		t.Fatalf("details called with %q/%d", details.gotKind, details.gotID)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["title"] != "The Matrix" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestTitleDetailValidation(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeDetailer{}, fakeReady{})

	for _, path := range []string{"/title/album/603", "/title/movie/abc", "/title/movie/-1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestTitleDetailProxiesRemoteStatus(t *testing.T) {
	details := &fakeDetailer{
		err: &catalog.StatusError{Code: http.StatusNotFound, Message: "The resource you requested could not be found."},
	}
	srv := newTestServer(&fakeEngine{}, details, fakeReady{})

	req := httptest.NewRequest(http.MethodGet, "/title/movie/99999999", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "could not be found") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestHealthzReportsGenreReadiness(t *testing.T) {
	srv := newTestServer(&fakeEngine{}, &fakeDetailer{}, fakeReady{ready: false})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("payload = %v", payload)
	}
	if loaded, ok := payload["genres_loaded"].(bool); !ok || loaded {
		t.Fatalf("genres_loaded = %v", payload["genres_loaded"])
	}
}
