package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"uniadvisor/internal/chat"
	"uniadvisor/internal/chunker"
	"uniadvisor/internal/embedding"
	"uniadvisor/internal/gate"
	"uniadvisor/internal/knowledge"
	"uniadvisor/internal/testutil"
	"uniadvisor/internal/vectorstore"
	"uniadvisor/internal/webfetch"
)

const dataFile = "universities_data.txt"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const corpus = "Oxford is an ancient university founded in 1096 and has a famous library system.\n\n" +
	"Cambridge was founded in 1209 by scholars who left Oxford after a dispute."

func newTestServer(t *testing.T, scraper *testutil.MockScraper) (*Server, *knowledge.Base) {
	t.Helper()

	files := testutil.NewMemFileStore()
	files.Files[dataFile] = []byte(corpus)

	store := vectorstore.NewMemory(embedding.NewLocalEmbedder(256))
	kb := knowledge.New(store, chunker.New(400), scraper, files, dataFile, discard)
	if _, err := kb.LoadFile(context.Background()); err != nil {
		t.Fatalf("load corpus: %v", err)
	}

	svc := chat.NewService(gate.New(), kb, nil, discard)
	return New(svc, kb, discard), kb
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, payload
}

func TestChat_AnswersFromCorpus(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, payload := doJSON(t, srv, http.MethodPost, "/chat", `{"message": "When was Oxford University founded?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if payload["status"] != "success" {
		t.Errorf("status field = %v", payload["status"])
	}
	answer, _ := payload["response"].(string)
	if !strings.Contains(answer, "1096") {
		t.Errorf("answer does not mention 1096: %q", answer)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, payload := doJSON(t, srv, http.MethodPost, "/chat", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload["status"] != "error" {
		t.Errorf("status field = %v", payload["status"])
	}
}

func TestChat_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, _ := doJSON(t, srv, http.MethodPost, "/chat", `{"message": `)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChat_OffTopicStillOK(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, payload := doJSON(t, srv, http.MethodPost, "/chat", `{"message": "best pizza recipe"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	answer, _ := payload["response"].(string)
	if answer == "" {
		t.Error("expected guidance text for off-topic question")
	}
}

func TestReload(t *testing.T) {
	srv, kb := newTestServer(t, testutil.NewMockScraper())

	rec, payload := doJSON(t, srv, http.MethodPost, "/reload", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if payload["status"] != "success" {
		t.Errorf("status field = %v", payload["status"])
	}
	if kb.Stats().FileChunks == 0 {
		t.Error("no file chunks after reload")
	}
}

func TestAddWebContent(t *testing.T) {
	scraper := testutil.NewMockScraper()
	scraper.Pages["https://www.ucas.com/apply"] = webfetch.Page{
		Markdown: "Undergraduate applications for UK universities go through the UCAS portal before the January deadline.",
		Title:    "UCAS",
	}
	srv, kb := newTestServer(t, scraper)

	rec, payload := doJSON(t, srv, http.MethodPost, "/add-web-content", `{"url": "https://www.ucas.com/apply"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %v", rec.Code, payload)
	}
	if kb.Stats().WebChunks == 0 {
		t.Error("no web chunks after add-web-content")
	}
}

func TestAddWebContent_FetchFailure(t *testing.T) {
	scraper := testutil.NewMockScraper()
	scraper.Fail = true
	srv, _ := newTestServer(t, scraper)

	rec, payload := doJSON(t, srv, http.MethodPost, "/add-web-content", `{"url": "https://example.ac.uk"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if payload["status"] != "error" {
		t.Errorf("status field = %v", payload["status"])
	}
}

func TestAddWebContent_MissingURL(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, _ := doJSON(t, srv, http.MethodPost, "/add-web-content", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddSearchContent(t *testing.T) {
	scraper := testutil.NewMockScraper()
	scraper.Hits = []webfetch.SearchHit{{URL: "https://a.ac.uk", Title: "A"}}
	scraper.Pages["https://a.ac.uk"] = webfetch.Page{
		Markdown: "Scholarship deadlines at this university fall in early spring for most postgraduate programmes.",
		Title:    "A",
	}
	srv, kb := newTestServer(t, scraper)

	rec, _ := doJSON(t, srv, http.MethodPost, "/add-search-content", `{"query": "scholarship deadlines"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if kb.Stats().WebChunks == 0 {
		t.Error("no web chunks after add-search-content")
	}
	if len(scraper.SearchCalls) != 1 {
		t.Errorf("search calls = %v", scraper.SearchCalls)
	}
}

func TestKnowledgeStats(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, payload := doJSON(t, srv, http.MethodGet, "/knowledge-stats", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	stats, ok := payload["stats"].(map[string]any)
	if !ok {
		t.Fatalf("stats field missing: %v", payload)
	}
	if stats["total_chunks"] == float64(0) {
		t.Error("total_chunks is 0")
	}
}

func TestClearWebContent(t *testing.T) {
	scraper := testutil.NewMockScraper()
	scraper.Pages["https://x.ac.uk"] = webfetch.Page{
		Markdown: "Some sufficiently long page about tuition fees and maintenance loans for home students.",
		Title:    "X",
	}
	srv, kb := newTestServer(t, scraper)
	doJSON(t, srv, http.MethodPost, "/add-web-content", `{"url": "https://x.ac.uk"}`)

	fileChunks := kb.Stats().FileChunks
	rec, payload := doJSON(t, srv, http.MethodPost, "/clear-web-content", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if removed, _ := payload["removed"].(float64); removed == 0 {
		t.Error("removed = 0, expected web chunks to be cleared")
	}
	if got := kb.Stats(); got.WebChunks != 0 || got.FileChunks != fileChunks {
		t.Errorf("stats after clear = %+v", got)
	}
}

func TestSearchSources(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	rec, payload := doJSON(t, srv, http.MethodPost, "/search-sources", `{"query": "Oxford founding"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	sources, ok := payload["sources"].([]any)
	if !ok || len(sources) == 0 {
		t.Fatalf("sources missing or empty: %v", payload)
	}
	first, _ := sources[0].(map[string]any)
	if first["type"] != "file" {
		t.Errorf("first source type = %v", first["type"])
	}
}

func TestClearHistory(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())
	doJSON(t, srv, http.MethodPost, "/chat", `{"message": "Tell me about Cambridge university"}`)

	rec, payload := doJSON(t, srv, http.MethodPost, "/clear-history", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if payload["status"] != "success" {
		t.Errorf("status field = %v", payload["status"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, testutil.NewMockScraper())

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
