package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolute-hq/invscreen/internal/config"
	"github.com/evolute-hq/invscreen/internal/enrich"
	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/internal/screen"
	"github.com/evolute-hq/invscreen/internal/webtext"
	"github.com/evolute-hq/invscreen/pkg/llm"
)

type scriptedLLM struct {
	responses []string
}

func (f *scriptedLLM) CreateMessage(_ context.Context, _ llm.MessageRequest) (*llm.MessageResponse, error) {
	text := ""
	if len(f.responses) > 0 {
		text = f.responses[0]
		f.responses = f.responses[1:]
	}
	return &llm.MessageResponse{Content: []llm.ContentBlock{{Type: "text", Text: text}}}, nil
}

func testServer(fake *scriptedLLM) *httptest.Server {
	fetcher := webtext.NewFetcher(config.FetchConfig{
		TimeoutSecs:      2,
		MinPageChars:     10,
		SubpageBatchSize: 5,
		RatePerSec:       1000,
	})
	enricher := enrich.New(fake, config.AnthropicConfig{
		ExtractModel:  "claude-haiku-4-5-20251001",
		FitModel:      "claude-sonnet-4-5-20250929",
		DescribeModel: "claude-sonnet-4-5-20250929",
		MaxTokens:     2048,
	})
	screener := screen.New(fetcher, enricher, config.ScreenConfig{})

	srv := New(screener, fetcher, enricher)
	return httptest.NewServer(srv.Router(config.ServerConfig{AllowedOrigins: []string{"*"}}))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()
	api := testServer(&scriptedLLM{})
	defer api.Close()

	resp, err := http.Get(api.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScreenStream_MalformedJSON(t *testing.T) {
	t.Parallel()
	api := testServer(&scriptedLLM{})
	defer api.Close()

	resp := postJSON(t, api.URL+"/api/screen-stream", "{not json")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestScreenStream_MissingInvestors(t *testing.T) {
	t.Parallel()
	api := testServer(&scriptedLLM{})
	defer api.Close()

	resp := postJSON(t, api.URL+"/api/screen-stream", `{"criteria":{"clientName":"Helix Bio"},"investors":[]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScreenStream_EmitsFrames(t *testing.T) {
	t.Parallel()
	api := testServer(&scriptedLLM{})
	defer api.Close()

	// No website: the investor degrades to needs-review without LLM calls,
	// but the stream contract still holds.
	body := `{
		"criteria": {"clientName": "Helix Bio", "checkSize": 5000000, "stages": ["Seed"], "sectors": ["climate"], "geoFocus": ["europe"]},
		"investors": [{"name": "Acme Ventures"}]
	}`
	resp := postJSON(t, api.URL+"/api/screen-stream", body)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var types []string
	var complete model.Event
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev model.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		types = append(types, ev.Type)
		if ev.Type == model.EventComplete {
			complete = ev
		}
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, []string{
		model.EventStart, model.EventProgress, model.EventResult, model.EventComplete,
	}, types)
	require.Len(t, complete.Results, 1)
	assert.Equal(t, model.NeedsReview("website unavailable"), complete.Results[0].Verdict)
	require.NotNil(t, complete.Summary)
	assert.Equal(t, 1, complete.Summary.NeedsReview)
}

func TestScreenOne(t *testing.T) {
	t.Parallel()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>A closed fund, fully deployed.</p>"))
	}))
	defer site.Close()

	fake := &scriptedLLM{responses: []string{
		`{"noLongerInvesting": true, "isActualInvestor": true, "description": "closed"}`,
	}}
	api := testServer(fake)
	defer api.Close()

	body := `{
		"criteria": {"clientName": "Helix Bio", "checkSize": 5000000},
		"investor": {"name": "Acme Ventures", "website": "` + site.URL + `"}
	}`
	resp := postJSON(t, api.URL+"/api/screen", body)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Result  model.ScreeningResult `json:"result"`
		Summary model.Summary         `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, model.VerdictDisqualified, out.Result.Verdict)
	assert.Equal(t, 1, out.Summary.Disqualified)
}

func TestAnalyzeClient_MissingWebsite(t *testing.T) {
	t.Parallel()
	api := testServer(&scriptedLLM{})
	defer api.Close()

	resp := postJSON(t, api.URL+"/api/analyze-client", `{"website": ""}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeClient_UnreachableSite(t *testing.T) {
	t.Parallel()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	site.Close()

	api := testServer(&scriptedLLM{})
	defer api.Close()

	resp := postJSON(t, api.URL+"/api/analyze-client", `{"website": "`+site.URL+`"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestAnalyzeClient_ReturnsProfile(t *testing.T) {
	t.Parallel()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<html><body><a href="/about">About</a><p>Helix Bio engineers proteins for industry.</p></body></html>`))
		case "/about":
			w.Write([]byte("<p>Founded by protein scientists building enzyme platforms.</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer site.Close()

	fake := &scriptedLLM{responses: []string{
		`{"companyName": "Helix Bio", "oneLiner": "Engineered proteins.", "sector": "Biotech", "investorFitKeywords": ["biotech"]}`,
	}}
	api := testServer(fake)
	defer api.Close()

	resp := postJSON(t, api.URL+"/api/analyze-client", `{"website": "`+site.URL+`", "keywords": ["biotech"]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Profile    model.ExtendedProfile `json:"profile"`
		Simplified model.ClientProfile   `json:"simplified"`
		PagesUsed  int                   `json:"pagesUsed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Helix Bio", out.Profile.CompanyName)
	assert.Equal(t, "Helix Bio", out.Simplified.CompanyName)
	assert.GreaterOrEqual(t, out.PagesUsed, 1)
}
