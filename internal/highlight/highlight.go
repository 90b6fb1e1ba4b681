package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"text-detector-go/internal/classify"
	"text-detector-go/internal/types"
)

// Fragment is one highlighted sentence.
type Fragment struct {
	Text        string
	Bucket      classify.Bucket
	Probability float64
}

func (f Fragment) Percent() string { return classify.Percent(f.Probability) }

func (f Fragment) Style() template.CSS {
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s", f.Bucket.Background(), f.Bucket.Foreground()))
}

// fragments are joined by a single space inside one container
var fragmentTmpl = template.Must(template.New("highlight").Parse(
	`<div class="highlighted-text">{{range $i, $f := .}}{{if $i}} {{end}}` +
		`<span class="sentence {{$f.Bucket}}" style="{{$f.Style}}" title="AI Probability: {{$f.Percent}}">{{$f.Text}}</span>` +
		`{{end}}</div>`))

// Build derives one fragment per sentence, in input order.
func Build(sentences []types.SentenceResult) []Fragment {
	out := make([]Fragment, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, Fragment{
			Text:        strings.TrimSpace(s.Sentence),
			Bucket:      classify.ForProbability(s.AIProbability),
			Probability: s.AIProbability,
		})
	}
	return out
}

// Render emits the container; an empty slice renders an empty container.
func Render(fragments []Fragment) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragmentTmpl.Execute(&buf, fragments); err != nil {
		return "", fmt.Errorf("render highlight: %w", err)
	}
	return template.HTML(buf.String()), nil
}
