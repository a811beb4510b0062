// Package eval benchmarks claim verification against labeled datasets
// in the FEVER format (one JSON object per line, gold label per claim).
package eval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/veritaslabs/veritas/internal/model"
)

// FEVER gold labels
const (
	LabelSupports      = "SUPPORTS"
	LabelRefutes       = "REFUTES"
	LabelNotEnoughInfo = "NOT ENOUGH INFO"
)

// Sample is one labeled claim from a dataset
type Sample struct {
	ID    int    `json:"id"`
	Claim string `json:"claim"`
	Label string `json:"label"`
}

// LoadDataset reads a JSONL dataset. A positive limit truncates the
// dataset after that many samples; zero or negative means no limit.
func LoadDataset(path string, limit int) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	var samples []Sample
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var s Sample
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
		}
		if strings.TrimSpace(s.Claim) == "" {
			continue
		}
		samples = append(samples, s)

		if limit > 0 && len(samples) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dataset: %w", err)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples found in %s", path)
	}
	return samples, nil
}

// MapStatus converts a verification status to its FEVER label.
// Partial support is treated as insufficient information rather than
// support: the benchmark rewards conservative calls.
func MapStatus(status model.Status) string {
	switch status {
	case model.StatusSupported:
		return LabelSupports
	case model.StatusConflicting:
		return LabelRefutes
	default:
		return LabelNotEnoughInfo
	}
}

// LabelMetrics holds per-label classification quality
type LabelMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"` // gold occurrences of the label
}

// Evaluation is the result of scoring predictions against gold labels
type Evaluation struct {
	Total     int                       `json:"total"`
	Correct   int                       `json:"correct"`
	Accuracy  float64                   `json:"accuracy"`
	MacroF1   float64                   `json:"macro_f1"`
	PerLabel  map[string]LabelMetrics   `json:"per_label"`
	Confusion map[string]map[string]int `json:"confusion"` // gold -> predicted -> count
}

// Evaluate scores predictions against the samples' gold labels. The
// predictions slice must align one-to-one with samples; a length
// mismatch is an immediate error.
func Evaluate(samples []Sample, predictions []string) (Evaluation, error) {
	if len(samples) != len(predictions) {
		return Evaluation{}, fmt.Errorf("got %d predictions for %d samples", len(predictions), len(samples))
	}
	if len(samples) == 0 {
		return Evaluation{}, fmt.Errorf("nothing to evaluate")
	}

	ev := Evaluation{
		Total:     len(samples),
		PerLabel:  make(map[string]LabelMetrics),
		Confusion: make(map[string]map[string]int),
	}

	labels := make(map[string]struct{})
	tp := make(map[string]int)
	fp := make(map[string]int)
	fn := make(map[string]int)

	for i, s := range samples {
		gold := strings.ToUpper(strings.TrimSpace(s.Label))
		pred := strings.ToUpper(strings.TrimSpace(predictions[i]))

		labels[gold] = struct{}{}
		labels[pred] = struct{}{}

		if ev.Confusion[gold] == nil {
			ev.Confusion[gold] = make(map[string]int)
		}
		ev.Confusion[gold][pred]++

		if gold == pred {
			ev.Correct++
			tp[gold]++
		} else {
			fn[gold]++
			fp[pred]++
		}
	}
	ev.Accuracy = float64(ev.Correct) / float64(ev.Total)

	names := make([]string, 0, len(labels))
	for l := range labels {
		names = append(names, l)
	}
	sort.Strings(names)

	var f1Sum float64
	for _, label := range names {
		m := LabelMetrics{Support: tp[label] + fn[label]}

		if tp[label]+fp[label] > 0 {
			m.Precision = float64(tp[label]) / float64(tp[label]+fp[label])
		}
		if tp[label]+fn[label] > 0 {
			m.Recall = float64(tp[label]) / float64(tp[label]+fn[label])
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}

		ev.PerLabel[label] = m
		f1Sum += m.F1
	}
	ev.MacroF1 = f1Sum / float64(len(names))

	return ev, nil
}

// WriteReport writes the evaluation as indented JSON to path
func WriteReport(ev Evaluation, path string) error {
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write evaluation: %w", err)
	}
	return nil
}
