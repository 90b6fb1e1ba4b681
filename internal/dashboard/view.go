package dashboard

import (
	"fmt"
	"html/template"

	"text-detector-go/internal/actionable"
	"text-detector-go/internal/aggregator"
	"text-detector-go/internal/chart"
	"text-detector-go/internal/classify"
	"text-detector-go/internal/highlight"
	"text-detector-go/internal/processor"
	"text-detector-go/internal/session"
	"text-detector-go/internal/types"
)

const flagPreviewLength = 50

// FormState is the transient widget state carried by one request, plus
// the messages produced while handling it.
type FormState struct {
	Text           string
	ShowHighlights bool
	FeedbackType   string
	Comment        string
	Flagged        map[int]bool

	Error   string
	Warning string
	Notice  string
	Stats   string
}

type ResultCard struct {
	Title   string
	Percent string
	Color   template.CSS
	IsAI    bool
}

type MetricCard struct {
	Value string
	Label string
	Color template.CSS
}

type SentenceRow struct {
	Index      int
	Status     string
	Percent    string
	Confidence string
	Sentence   string
}

type LegendItem struct {
	Label string
	Color template.CSS
}

type FeedbackOption struct {
	Value    string
	Label    string
	Selected bool
}

type SentenceChoice struct {
	Index   int
	Label   string
	Checked bool
}

type FeedbackView struct {
	Submitted     bool
	Options       []FeedbackOption
	Comment       string
	MaxComment    int
	Sentences     []SentenceChoice
	ShowSentences bool
	CanSubmit     bool
	Stats         string
}

type View struct {
	Text           string
	ShowHighlights bool
	Error          string
	Warning        string
	Notice         string
	Legend         []LegendItem

	HasResult    bool
	Card         ResultCard
	Metrics      aggregator.Metrics
	Cards        []MetricCard
	HasSentences bool
	Advisory     *actionable.Advisory
	Highlight    template.HTML
	ChartBars    int
	Rows         []SentenceRow
	Feedback     FeedbackView
}

var legend = []LegendItem{
	{Label: "Likely AI-Generated", Color: "#e74c3c"},
	{Label: "Mixed/Uncertain", Color: "#f39c12"},
	{Label: "Likely Human-Written", Color: "#27ae60"},
}

// BuildView is a pure function of the stored state and the form state;
// calling it twice with the same inputs yields the same view.
func BuildView(st session.State, form FormState) (View, error) {
	v := View{
		Text:           form.Text,
		ShowHighlights: form.ShowHighlights,
		Error:          form.Error,
		Warning:        form.Warning,
		Notice:         form.Notice,
		Legend:         legend,
	}
	if v.Text == "" {
		v.Text = st.Text
	}
	if !st.HasResult() {
		return v, nil
	}

	res := *st.Result
	sentences := res.SentenceLevelResults
	v.HasResult = true
	v.Card = resultCard(res)
	v.Metrics = aggregator.Aggregate(res)
	v.HasSentences = len(sentences) > 0
	if adv, ok := actionable.Generate(v.Metrics); ok {
		v.Advisory = &adv
	}
	v.Feedback = feedbackView(st, form, sentences)

	if !v.HasSentences {
		return v, nil
	}

	v.Cards = metricCards(v.Metrics)
	v.ChartBars = len(chart.Build(sentences).Bars)
	v.Rows = sentenceRows(sentences)
	if form.ShowHighlights {
		h, err := highlight.Render(highlight.Build(sentences))
		if err != nil {
			return View{}, err
		}
		v.Highlight = h
	}
	return v, nil
}

func resultCard(res types.AnalysisResult) ResultCard {
	c := ResultCard{
		Title:   "Human-Written Content Detected",
		Percent: classify.Percent(res.AIProbability),
		Color:   "#27ae60",
		IsAI:    res.IsAI,
	}
	if res.IsAI {
		c.Title = "AI-Generated Content Detected"
		c.Color = "#e74c3c"
	}
	return c
}

func metricCards(m aggregator.Metrics) []MetricCard {
	cards := []MetricCard{
		{Value: fmt.Sprint(m.TotalSentences), Label: "Total Sentences", Color: "#3498db"},
		{Value: fmt.Sprint(m.AICount), Label: "AI Sentences", Color: "#e74c3c"},
		{Value: fmt.Sprint(m.HumanCount), Label: "Human Sentences", Color: "#27ae60"},
		{Value: classify.Percent(m.SentenceBasedProb), Label: "AI Prob. (Sentence Count)", Color: "#f39c12"},
	}
	if m.HasAvg {
		cards = append(cards, MetricCard{Value: classify.Percent(m.AvgProb), Label: "Avg. AI Probability", Color: "#9b59b6"})
	}
	return cards
}

func statusLabel(isAI bool) string {
	if isAI {
		return "AI"
	}
	return "Human"
}

func sentenceRows(sentences []types.SentenceResult) []SentenceRow {
	rows := make([]SentenceRow, 0, len(sentences))
	for i, s := range sentences {
		rows = append(rows, SentenceRow{
			Index:      i + 1,
			Status:     statusLabel(s.IsAI),
			Percent:    classify.Percent(s.AIProbability),
			Confidence: classify.Confidence(s.AIProbability),
			Sentence:   trimmed(s.Sentence),
		})
	}
	return rows
}

func feedbackView(st session.State, form FormState, sentences []types.SentenceResult) FeedbackView {
	fv := FeedbackView{
		Submitted:  st.FeedbackSubmitted,
		Comment:    form.Comment,
		MaxComment: processor.MaxCommentLength,
		Stats:      form.Stats,
	}
	selected, valid := types.ParseFeedbackType(form.FeedbackType)
	fv.CanSubmit = valid
	for _, ft := range types.FeedbackTypes {
		fv.Options = append(fv.Options, FeedbackOption{
			Value:    string(ft),
			Label:    ft.Label(),
			Selected: valid && ft == selected,
		})
	}
	for i, s := range sentences {
		fv.Sentences = append(fv.Sentences, SentenceChoice{
			Index:   i,
			Label:   flagLabel(i, s),
			Checked: form.Flagged[i],
		})
	}
	fv.ShowSentences = valid && selected == types.FeedbackIncorrectSentence && len(sentences) > 0
	return fv
}

func flagLabel(i int, s types.SentenceResult) string {
	text := []rune(trimmed(s.Sentence))
	preview := string(text)
	if len(text) > flagPreviewLength {
		preview = string(text[:flagPreviewLength]) + "..."
	}
	return fmt.Sprintf("Sentence %d: %s (%s) - %q", i+1, statusLabel(s.IsAI), classify.Percent(s.AIProbability), preview)
}
