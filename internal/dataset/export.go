package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"text-detector-go/internal/aggregator"
	"text-detector-go/internal/chart"
	"text-detector-go/internal/classify"
	"text-detector-go/internal/types"
)

const (
	SummarySheet   = "Summary"
	SentencesSheet = "Sentences"
)

var sentenceHeader = []interface{}{"#", "Sentence", "AI Probability", "Classification", "Bucket", "Confidence"}

// WriteWorkbook writes the stored analysis as an xlsx workbook: summary
// metrics, one row per sentence and, when there are sentences, the chart.
func WriteWorkbook(w io.Writer, text string, result types.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummary(f, text, result); err != nil {
		return err
	}
	if _, err := f.NewSheet(SentencesSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := writeSentences(f, result.SentenceLevelResults); err != nil {
		return err
	}
	if err := addChart(f, result.SentenceLevelResults); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, text string, result types.AnalysisResult) error {
	m := aggregator.Aggregate(result)
	verdict := "Human-Written"
	if result.IsAI {
		verdict = "AI-Generated"
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Verdict (API)", verdict},
		{"Overall AI Probability (API)", result.AIProbability},
		{"Total Sentences", m.TotalSentences},
		{"AI Sentences", m.AICount},
		{"Human Sentences", m.HumanCount},
		{"AI Prob. (Sentence Count)", m.SentenceBasedProb},
	}
	if m.HasAvg {
		rows = append(rows, []interface{}{"Avg. AI Probability", m.AvgProb})
	}
	rows = append(rows,
		[]interface{}{"Difference", m.Difference},
		[]interface{}{"Divergence", m.DivergenceLabel},
		[]interface{}{"Characters Analyzed", len([]rune(text))},
	)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 32)
}

func writeSentences(f *excelize.File, sentences []types.SentenceResult) error {
	if err := f.SetSheetRow(SentencesSheet, "A1", &sentenceHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range sentences {
		label := "Human"
		if s.IsAI {
			label = "AI"
		}
		row := []interface{}{
			i + 1,
			strings.TrimSpace(s.Sentence),
			s.AIProbability,
			label,
			classify.ForProbability(s.AIProbability).String(),
			classify.Confidence(s.AIProbability),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SentencesSheet, cell, &row); err != nil {
			return fmt.Errorf("write sentence row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SentencesSheet, "B", "B", 80)
}

func addChart(f *excelize.File, sentences []types.SentenceResult) error {
	var png bytes.Buffer
	err := chart.RenderPNG(&png, chart.Build(sentences))
	if errors.Is(err, chart.ErrNoBars) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.AddPictureFromBytes(SummarySheet, "D2", &excelize.Picture{
		Extension: ".png",
		File:      png.Bytes(),
		Format:    &excelize.GraphicOptions{AltText: chart.Title, ScaleX: 0.6, ScaleY: 0.6},
	})
}
