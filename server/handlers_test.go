package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/botflow"
	"github.com/meikuraledutech/botflow/config"
	"github.com/meikuraledutech/botflow/engine"
	"github.com/meikuraledutech/botflow/memstore"
)

func testApp(t *testing.T, cfg *config.Config) *fiberApp {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	app := newApp(memstore.New(), nil, engine.NewRunner(nil), cfg, ttsSecrets{Key: "test-key", UserID: "test-user"})
	return &fiberApp{t: t, app: app}
}

// fiberApp wraps app.Test with the boilerplate around requests/responses.
type fiberApp struct {
	t   *testing.T
	app *fiber.App
}

func (f *fiberApp) do(method, path, body string) (*http.Response, string) {
	f.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	if err != nil {
		f.t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		f.t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, string(raw)
}

const sampleWorkflow = `{
	"nodes": [
		{"id": "doc.txt_1", "type": "inputNode", "position": {"x": 0, "y": 0},
		 "data": {"name": "doc.txt", "category": "file"}},
		{"id": "extract_1", "type": "botNode", "position": {"x": 0, "y": 120},
		 "data": {"botId": "extract"}},
		{"id": "output-node_1", "type": "outputNode", "position": {"x": 0, "y": 240}, "data": {}}
	],
	"edges": [
		{"id": "edge__doc.txt_1-extract_1", "source": "doc.txt_1", "target": "extract_1"},
		{"id": "edge__extract_1-output-node_1", "source": "extract_1", "target": "output-node_1"}
	]
}`

func TestWorkflowCRUD(t *testing.T) {
	f := testApp(t, nil)

	resp, _ := f.do("PUT", "/workflows/demo", sampleWorkflow)
	if resp.StatusCode != 204 {
		t.Fatalf("save status = %d", resp.StatusCode)
	}

	resp, body := f.do("GET", "/workflows/demo", "")
	if resp.StatusCode != 200 {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	doc, err := botflow.FromDocument([]byte(body))
	if err != nil {
		t.Fatalf("returned document invalid: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("doc = %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}

	resp, body = f.do("GET", "/workflows", "")
	if resp.StatusCode != 200 || !strings.Contains(body, "demo") {
		t.Errorf("list status = %d, body = %s", resp.StatusCode, body)
	}

	resp, _ = f.do("DELETE", "/workflows/demo", "")
	if resp.StatusCode != 204 {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = f.do("GET", "/workflows/demo", "")
	if resp.StatusCode != 404 {
		t.Errorf("get after delete = %d", resp.StatusCode)
	}
}

func TestSaveRejectsMalformedDocument(t *testing.T) {
	f := testApp(t, nil)

	resp, _ := f.do("PUT", "/workflows/bad", `{"nodes": []}`)
	if resp.StatusCode != 400 {
		t.Errorf("missing edges key accepted: %d", resp.StatusCode)
	}

	// The bad save must not have touched the store.
	resp, _ = f.do("GET", "/workflows/bad", "")
	if resp.StatusCode != 404 {
		t.Errorf("partial save leaked: %d", resp.StatusCode)
	}
}

func TestSaveRejectsUnknownConfigKey(t *testing.T) {
	f := testApp(t, nil)
	doc := `{
		"nodes": [{"id": "b", "type": "botNode", "position": {"x":0,"y":0},
		           "data": {"botId": "summarizer", "config": {"voice": "larry"}}}],
		"edges": []
	}`
	resp, body := f.do("PUT", "/workflows/bad-config", doc)
	if resp.StatusCode != 400 || !strings.Contains(body, "unknown config key") {
		t.Errorf("status = %d, body = %s", resp.StatusCode, body)
	}
}

func TestRunEndpoint(t *testing.T) {
	f := testApp(t, nil)

	resp, body := f.do("POST", "/run", sampleWorkflow)
	if resp.StatusCode != 200 {
		t.Fatalf("run status = %d: %s", resp.StatusCode, body)
	}
	doc, err := botflow.FromDocument([]byte(body))
	if err != nil {
		t.Fatalf("run response invalid: %v", err)
	}
	out, ok := doc.Graph().Node("output-node_1")
	if !ok {
		t.Fatal("output node missing from response")
	}
	if out.Data.Result != "Mock extracted entities: doc.txt" {
		t.Errorf("output result = %q", out.Data.Result)
	}
}

func TestRunRejectsMalformedDocument(t *testing.T) {
	f := testApp(t, nil)
	resp, _ := f.do("POST", "/run", `{"edges": []}`)
	if resp.StatusCode != 400 {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestTTSProxyForwardsSecrets(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("AUTHORIZATION = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-USER-ID") != "test-user" {
			t.Errorf("X-USER-ID = %q", r.Header.Get("X-USER-ID"))
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["text"] != "hello" {
			t.Errorf("text = %v", req["text"])
		}
		json.NewEncoder(w).Encode(map[string]string{"audioUrl": "https://cdn.example/a.mp3"})
	}))
	defer upstream.Close()

	cfg := &config.Config{}
	cfg.TTS.Upstream = upstream.URL
	f := testApp(t, cfg)

	resp, body := f.do("POST", "/api/tts", `{"text": "hello", "voice": "larry"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "audioUrl") {
		t.Errorf("body = %s", body)
	}
}

func TestTTSProxyPassesUpstreamStatusThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
	}))
	defer upstream.Close()

	cfg := &config.Config{}
	cfg.TTS.Upstream = upstream.URL
	f := testApp(t, cfg)

	resp, body := f.do("POST", "/api/tts", `{"text": "hello"}`)
	if resp.StatusCode != 403 || !strings.Contains(body, "bad credentials") {
		t.Errorf("status = %d, body = %s", resp.StatusCode, body)
	}
}

func TestSchemaWithoutDatabase(t *testing.T) {
	f := testApp(t, nil)
	resp, _ := f.do("POST", "/schema", "")
	if resp.StatusCode != 409 {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestHello(t *testing.T) {
	f := testApp(t, nil)
	resp, body := f.do("GET", "/api/hello", "")
	if resp.StatusCode != 200 || !strings.Contains(body, "Hello from the proxy server!") {
		t.Errorf("status = %d, body = %s", resp.StatusCode, body)
	}
}
