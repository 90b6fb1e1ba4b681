package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"text-detector-go/internal/logger"
	"text-detector-go/internal/processor"
	"text-detector-go/internal/remote"
	"text-detector-go/internal/session"
	"text-detector-go/internal/types"
)

const detectBody = `{"ai_probability":0.6,"is_ai":true,"sentence_level_results":[` +
	`{"sentence":" A. ","ai_probability":0.8,"is_ai":true},` +
	`{"sentence":"B.","ai_probability":0.2,"is_ai":false}]}`

type fixture struct {
	app            *httptest.Server
	detectCalls    atomic.Int32
	detectStatus   atomic.Int32
	feedbackStatus atomic.Int32
	feedback       chan types.FeedbackSubmission
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{feedback: make(chan types.FeedbackSubmission, 4)}
	f.detectStatus.Store(http.StatusOK)
	f.feedbackStatus.Store(http.StatusOK)

	detector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.detectCalls.Add(1)
		if code := int(f.detectStatus.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			io.WriteString(w, "model offline")
			return
		}
		io.WriteString(w, detectBody)
	}))
	t.Cleanup(detector.Close)

	feedback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := int(f.feedbackStatus.Load()); code != http.StatusOK {
			http.Error(w, "feedback store down", code)
			return
		}
		if r.URL.Path == "/stats" {
			io.WriteString(w, `{"total_feedback":3}`)
			return
		}
		var sub types.FeedbackSubmission
		json.NewDecoder(r.Body).Decode(&sub)
		f.feedback <- sub
		io.WriteString(w, `{"message":"Thanks for the feedback"}`)
	}))
	t.Cleanup(feedback.Close)

	log := logger.Discard()
	proc := processor.New(
		session.NewMemoryStore(time.Hour),
		remote.NewDetectorClient(detector.URL, time.Second, log),
		remote.NewFeedbackClient(feedback.URL, time.Second, time.Second, log),
		"dashboard_user",
		log,
	)
	f.app = httptest.NewServer(NewRouter(NewHandler(proc, log, time.Hour)))
	t.Cleanup(f.app.Close)
	return f
}

func (f *fixture) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, u string) (int, string) {
	t.Helper()
	resp, err := c.Get(u)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) string {
	t.Helper()
	resp, err := c.PostForm(u, form)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d", u, resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestAnalyzeRendersResults(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)

	body := post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})
	for _, want := range []string{
		"AI-Generated Content Detected",
		"60.0%",
		`<div class="highlighted-text">`,
		`title="AI Probability: 80.0%"`,
		`<iframe src="/chart"`,
		"Sentence 1: AI (80.0%) - &#34;A.&#34;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	_, first := get(t, c, f.app.URL+"/")
	_, second := get(t, c, f.app.URL+"/")
	if first != second {
		t.Fatal("re-rendering the same state changed the page")
	}
	if f.detectCalls.Load() != 1 {
		t.Fatalf("rendering must not call the API, calls = %d", f.detectCalls.Load())
	}
}

func TestAnalyzeEmptyTextMakesNoCall(t *testing.T) {
	f := newFixture(t)
	body := post(t, f.client(t), f.app.URL+"/analyze", url.Values{"text": {"   "}})
	if !strings.Contains(body, msgEmptyText) {
		t.Fatal("missing empty text warning")
	}
	if f.detectCalls.Load() != 0 {
		t.Fatal("empty text reached the API")
	}
}

func TestAnalyzeErrorKeepsPreviousResult(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	f.detectStatus.Store(http.StatusInternalServerError)
	body := post(t, c, f.app.URL+"/analyze", url.Values{"text": {"Other text."}})
	if !strings.Contains(body, "API Error: 500 - model offline") {
		t.Fatal("missing API error message")
	}
	if !strings.Contains(body, "AI-Generated Content Detected") {
		t.Fatal("previous result must still be shown")
	}
	if !strings.Contains(body, "Other text.") {
		t.Fatal("typed text must be kept in the input")
	}
}

func TestClearDropsResult(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	body := post(t, c, f.app.URL+"/clear", nil)
	if strings.Contains(body, `id="results"`) {
		t.Fatal("results rendered after clear")
	}
	if strings.Contains(body, "A. B.") {
		t.Fatal("text area not emptied")
	}
}

func TestHighlightToggleOff(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	_, body := get(t, c, f.app.URL+"/?view=1")
	if strings.Contains(body, `<div class="highlighted-text">`) {
		t.Fatal("highlight rendered with toggle off")
	}
	if !strings.Contains(body, "<td>Medium</td>") {
		t.Fatal("detailed table missing")
	}
}

func TestFeedbackFlow(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	body := post(t, c, f.app.URL+"/feedback", url.Values{"comment": {"hmm"}})
	if !strings.Contains(body, msgNoFeedbackType) {
		t.Fatal("missing feedback type warning")
	}
	if len(f.feedback) != 0 {
		t.Fatal("feedback sent without a type")
	}

	body = post(t, c, f.app.URL+"/feedback", url.Values{
		"feedback_type":   {"incorrect_sentence"},
		"failed_sentence": {"1"},
		"comment":         {"B. reads like a model"},
	})
	if !strings.Contains(body, "Thanks for the feedback") || !strings.Contains(body, "Thank you for your feedback!") {
		t.Fatal("missing thank-you state")
	}
	sub := <-f.feedback
	if sub.FeedbackType != types.FeedbackIncorrectSentence || len(sub.FailedSentences) != 1 || sub.FailedSentences[0] != "B." {
		t.Fatalf("submission = %+v", sub)
	}
	if sub.UserID != "dashboard_user" || sub.Text != "A. B." {
		t.Fatalf("submission = %+v", sub)
	}

	body = post(t, c, f.app.URL+"/feedback/reset", nil)
	if strings.Contains(body, "Thank you for your feedback!") || !strings.Contains(body, `name="feedback_type"`) {
		t.Fatal("reset did not re-open the form")
	}
	if !strings.Contains(body, "AI-Generated Content Detected") {
		t.Fatal("reset must keep the result")
	}
}

func TestFeedbackStats(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	body := post(t, c, f.app.URL+"/feedback/stats", nil)
	if !strings.Contains(body, "total_feedback") {
		t.Fatal("stats not rendered")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t)
	a, b := f.client(t), f.client(t)
	post(t, a, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	_, body := get(t, b, f.app.URL+"/")
	if strings.Contains(body, `id="results"`) {
		t.Fatal("second browser sees the first browser's result")
	}
}

func TestChartPage(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	code, body := get(t, c, f.app.URL+"/chart")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, "S1: AI Probability 80.0%") || !strings.Contains(body, "#e74c3c") {
		t.Fatal("chart page missing hover text or bar colour")
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)

	if code, _ := get(t, c, f.app.URL+"/export.xlsx"); code != http.StatusNotFound {
		t.Fatalf("export without result: status %d", code)
	}

	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})
	resp, err := c.Get(f.app.URL + "/export.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != xlsxContentType {
		t.Fatalf("status %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestSessionJSON(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	code, body := get(t, c, f.app.URL+"/api/session")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var got struct {
		HasResult bool `json:"has_result"`
		Metrics   struct {
			TotalSentences int `json:"total_sentences"`
			AICount        int `json:"ai_count"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if !got.HasResult || got.Metrics.TotalSentences != 2 || got.Metrics.AICount != 1 {
		t.Fatalf("session json = %s", body)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	code, body := get(t, f.client(t), f.app.URL+"/healthz")
	if code != http.StatusOK || !strings.Contains(body, "ok") {
		t.Fatalf("health = %d %s", code, body)
	}
}

func TestFeedbackFailureKeepsFormOpen(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A. B."}})

	f.feedbackStatus.Store(http.StatusInternalServerError)
	body := post(t, c, f.app.URL+"/feedback", url.Values{"feedback_type": {"false_positive"}, "comment": {"keep me"}})
	if !strings.Contains(body, "Failed to submit feedback: feedback store down") {
		t.Fatal("missing feedback failure message")
	}
	if strings.Contains(body, "Thank you for your feedback!") || !strings.Contains(body, "keep me") {
		t.Fatal("form must stay open with the typed comment")
	}

	body = post(t, c, f.app.URL+"/feedback/stats", nil)
	if !strings.Contains(body, msgStatsFailed) {
		t.Fatal("missing stats failure message")
	}
}

func TestSessionCookieIsRefreshed(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	get(t, c, f.app.URL+"/")

	resp, err := c.Get(f.app.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	u, _ := url.Parse(f.app.URL)
	jarCookies := c.Jar.Cookies(u)
	var refreshed *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			refreshed = ck
		}
	}
	if refreshed == nil {
		t.Fatal("session cookie not re-issued on a later request")
	}
	if len(jarCookies) != 1 || jarCookies[0].Value != refreshed.Value {
		t.Fatalf("session id changed: jar %v, refreshed %v", jarCookies, refreshed.Value)
	}
	if refreshed.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("max age = %d", refreshed.MaxAge)
	}
}

func TestBannersCanBeDismissed(t *testing.T) {
	f := newFixture(t)
	c := f.client(t)
	const dismiss = `<button type="button" class="dismiss" aria-label="Dismiss">`

	body := post(t, c, f.app.URL+"/analyze", url.Values{"text": {"   "}})
	if !strings.Contains(body, `<div class="banner warning" role="alert">`+dismiss) {
		t.Fatal("warning banner has no dismiss control")
	}

	f.detectStatus.Store(http.StatusBadGateway)
	body = post(t, c, f.app.URL+"/analyze", url.Values{"text": {"A."}})
	if !strings.Contains(body, `<div class="banner error" role="alert">`+dismiss) {
		t.Fatal("error banner has no dismiss control")
	}
	if !strings.Contains(body, `.banner .dismiss`) {
		t.Fatal("missing dismiss script")
	}
}
