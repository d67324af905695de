package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	directive "github.com/phatnguyentan/graph-demo/internal/directive"
	eventbus "github.com/phatnguyentan/graph-demo/internal/eventbus"
	events "github.com/phatnguyentan/graph-demo/internal/events"
	executor "github.com/phatnguyentan/graph-demo/internal/executor"
	reqid "github.com/phatnguyentan/graph-demo/internal/reqid"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

func newTestHandler(t *testing.T, rt executor.Runtime, opts ...Option) *Handler {
	t.Helper()
	sch, err := schema.BuildFromSDL("test", `type Query { hello: String }`)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	h, err := New(rt, sch, opts...)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return h
}

func postQuery(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostQuery(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt)

	w := postQuery(t, h, `{"query":"{ hello }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var res struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Data["hello"] != "world" {
		t.Fatalf("data = %v", res.Data)
	}
}

func TestSelectionDirectiveThroughHandler(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	reg, err := directive.NewRegistry(directive.Upper())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	h := newTestHandler(t, rt, WithDirectives(reg))

	w := postQuery(t, h, `{"query":"{ hello @upper }"}`)
	var res struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Data["hello"] != "WORLD" {
		t.Fatalf("data = %v", res.Data)
	}
}

func TestPartialResultFormatting(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockErrorResolver(context.DeadlineExceeded),
	})
	h := newTestHandler(t, rt)

	w := postQuery(t, h, `{"query":"{ hello }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var res struct {
		Data   map[string]any `json:"data"`
		Errors []struct {
			Message string `json:"message"`
			Path    []any  `json:"path"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := res.Data["hello"]; !ok || res.Data["hello"] != nil {
		t.Fatalf("expected null hello in data: %v", res.Data)
	}
	if len(res.Errors) != 1 || res.Errors[0].Path[0] != "hello" {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestBatchRequest(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt)

	w := postQuery(t, h, `[{"query":"{ hello }"},{"query":"{ hello }"}]`)
	var res []struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res) != 2 || res[1].Data["hello"] != "world" {
		t.Fatalf("batch = %v", res)
	}
}

func TestCORSAndPreflight(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt, WithCORS("*"))

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}

	pre := httptest.NewRequest("OPTIONS", "/", nil)
	pre.Header.Set("Origin", "http://example.com")
	pre.Header.Set("Access-Control-Request-Headers", "X-Test")
	pw := httptest.NewRecorder()
	h.ServeHTTP(pw, pre)
	if pw.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", pw.Code)
	}
	if pw.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight missing CORS header")
	}
	if pw.Header().Get("Access-Control-Allow-Headers") != "X-Test" {
		t.Fatalf("preflight missing allow headers")
	}
}

func TestMaxBodyBytes(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt, WithMaxBodyBytes(10))

	w := postQuery(t, h, `{"query":"1234567890"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	rt := executor.NewMockRuntime(nil)
	var capturedID int64
	rt.SetResolver("Query", "hello", func(ctx context.Context, src any, args map[string]any) (any, error) {
		capturedID, _ = reqid.FromContext(ctx)
		return "world", nil
	})
	h := newTestHandler(t, rt)

	w := postQuery(t, h, `{"query":"{ hello }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if capturedID == 0 {
		t.Fatalf("missing request id in context")
	}
}

func TestLifecycleEventsShareRequestID(t *testing.T) {
	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)

	var httpStart, httpFinish, gqlStart, gqlFinish int64
	defer eventbus.Subscribe(func(ctx context.Context, e events.HTTPStart) { httpStart = e.RequestID })()
	defer eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) { httpFinish = e.RequestID })()
	defer eventbus.Subscribe(func(ctx context.Context, e events.GraphQLStart) { gqlStart = e.RequestID })()
	defer eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) { gqlFinish = e.RequestID })()

	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt)

	w := postQuery(t, h, `{"query":"{ hello }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if httpStart == 0 {
		t.Fatalf("HTTPStart carried no request id")
	}
	for name, got := range map[string]int64{
		"HTTPFinish":    httpFinish,
		"GraphQLStart":  gqlStart,
		"GraphQLFinish": gqlFinish,
	} {
		if got != httpStart {
			t.Fatalf("%s request id = %d, want %d", name, got, httpStart)
		}
	}
}

func TestGetQuery(t *testing.T) {
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	h := newTestHandler(t, rt)

	req := httptest.NewRequest("GET", "/?query="+strings.ReplaceAll("{ hello }", " ", "%20"), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"world"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestGraphiQLPage(t *testing.T) {
	rt := executor.NewMockRuntime(nil)
	h := newTestHandler(t, rt)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("content type = %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "GraphiQL") {
		t.Fatalf("not the IDE page")
	}
}
