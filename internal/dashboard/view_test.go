package dashboard

import (
	"reflect"
	"strings"
	"testing"

	"text-detector-go/internal/session"
	"text-detector-go/internal/types"
)

func sampleState() session.State {
	return session.State{
		Text: "A. B.",
		Result: &types.AnalysisResult{
			AIProbability: 0.6,
			IsAI:          true,
			SentenceLevelResults: []types.SentenceResult{
				{Sentence: " A. ", AIProbability: 0.8, IsAI: true},
				{Sentence: "B.", AIProbability: 0.2},
			},
		},
	}
}

func TestBuildViewWithoutResult(t *testing.T) {
	v, err := BuildView(session.State{}, FormState{ShowHighlights: true})
	if err != nil {
		t.Fatal(err)
	}
	if v.HasResult || v.Rows != nil || v.Advisory != nil || v.Highlight != "" {
		t.Fatalf("empty state rendered results: %+v", v)
	}
}

func TestBuildViewResult(t *testing.T) {
	v, err := BuildView(sampleState(), FormState{ShowHighlights: true})
	if err != nil {
		t.Fatal(err)
	}
	if v.Card.Title != "AI-Generated Content Detected" || v.Card.Percent != "60.0%" || v.Card.Color != "#e74c3c" {
		t.Fatalf("card = %+v", v.Card)
	}
	if v.Text != "A. B." {
		t.Fatalf("text area should default to stored text, got %q", v.Text)
	}
	if len(v.Cards) != 5 || v.Cards[3].Value != "50.0%" || v.Cards[4].Value != "50.0%" {
		t.Fatalf("metric cards = %+v", v.Cards)
	}
	if v.Advisory != nil {
		t.Fatalf("diff 0.1 is not above the moderate threshold: %+v", v.Advisory)
	}
	if v.ChartBars != 2 {
		t.Fatalf("chart bars = %d", v.ChartBars)
	}
	if v.Rows[0].Sentence != "A." || v.Rows[0].Confidence != "High" || v.Rows[1].Confidence != "Medium" || v.Rows[1].Status != "Human" {
		t.Fatalf("rows = %+v", v.Rows)
	}
	if !strings.Contains(string(v.Highlight), `class="sentence high-ai"`) {
		t.Fatalf("highlight = %s", v.Highlight)
	}
	if len(v.Feedback.Options) != len(types.FeedbackTypes) || v.Feedback.CanSubmit {
		t.Fatalf("feedback = %+v", v.Feedback)
	}
	if got := v.Feedback.Sentences[0].Label; got != `Sentence 1: AI (80.0%) - "A."` {
		t.Fatalf("flag label = %s", got)
	}
}

func TestBuildViewIsIdempotent(t *testing.T) {
	st := sampleState()
	form := FormState{ShowHighlights: true, FeedbackType: "incorrect_sentence", Flagged: map[int]bool{1: true}}
	a, err := BuildView(st, form)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := BuildView(st, form)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two renders of the same state differ")
	}
	if !a.Feedback.ShowSentences || !a.Feedback.Sentences[1].Checked || !a.Feedback.CanSubmit {
		t.Fatalf("feedback = %+v", a.Feedback)
	}
}

func TestBuildViewHighlightToggle(t *testing.T) {
	v, _ := BuildView(sampleState(), FormState{})
	if v.Highlight != "" {
		t.Fatal("highlight rendered while toggle is off")
	}
	if len(v.Rows) != 2 {
		t.Fatal("table must not depend on the toggle")
	}
}

func TestBuildViewWithoutSentences(t *testing.T) {
	st := session.State{Text: "Hi", Result: &types.AnalysisResult{AIProbability: 0.95, IsAI: true}}
	v, err := BuildView(st, FormState{ShowHighlights: true})
	if err != nil {
		t.Fatal(err)
	}
	if !v.HasResult || v.HasSentences {
		t.Fatalf("view = %+v", v)
	}
	if v.Cards != nil || v.Rows != nil || v.Highlight != "" || v.ChartBars != 0 {
		t.Fatal("per-sentence sections rendered without sentences")
	}
	if v.Advisory != nil {
		t.Fatal("advisory needs at least one sentence")
	}
	if len(v.Feedback.Options) == 0 {
		t.Fatal("feedback section must still be offered")
	}
}

func TestBuildViewSignificantAdvisory(t *testing.T) {
	st := sampleState()
	st.Result.AIProbability = 0.85
	v, _ := BuildView(st, FormState{})
	if v.Advisory == nil || v.Advisory.Level != "significant" || v.Advisory.Color != "#f39c12" {
		t.Fatalf("advisory = %+v", v.Advisory)
	}
}

func TestFlagLabelTruncates(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := flagLabel(2, types.SentenceResult{Sentence: long, AIProbability: 0.1})
	want := `Sentence 3: Human (10.0%) - "` + strings.Repeat("x", 50) + `..."`
	if got != want {
		t.Fatalf("label = %s", got)
	}
	exact := strings.Repeat("y", 50)
	if got := flagLabel(0, types.SentenceResult{Sentence: exact}); strings.Contains(got, "...") {
		t.Fatalf("50 characters must not be truncated: %s", got)
	}
}
