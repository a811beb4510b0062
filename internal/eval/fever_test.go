package eval

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/veritaslabs/veritas/internal/model"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDataset(t *testing.T) {
	content := `{"id": 1, "claim": "The Earth orbits the Sun.", "label": "SUPPORTS"}

{"id": 2, "claim": "The Moon is made of cheese.", "label": "REFUTES"}
{"id": 3, "claim": "   ", "label": "SUPPORTS"}
{"id": 4, "claim": "Paris is in France.", "label": "NOT ENOUGH INFO"}
`
	path := writeDataset(t, content)

	samples, err := LoadDataset(path, 0)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}

	// Blank line and empty claim are skipped
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0].Claim != "The Earth orbits the Sun." || samples[0].Label != "SUPPORTS" {
		t.Errorf("unexpected first sample: %+v", samples[0])
	}
}

func TestLoadDataset_Limit(t *testing.T) {
	content := `{"id": 1, "claim": "a claim", "label": "SUPPORTS"}
{"id": 2, "claim": "another claim", "label": "REFUTES"}
{"id": 3, "claim": "a third claim", "label": "SUPPORTS"}
`
	path := writeDataset(t, content)

	samples, err := LoadDataset(path, 2)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("expected limit of 2 samples, got %d", len(samples))
	}
}

func TestLoadDataset_Malformed(t *testing.T) {
	path := writeDataset(t, "not json at all")
	if _, err := LoadDataset(path, 0); err == nil {
		t.Error("expected error for malformed dataset")
	}
}

func TestLoadDataset_Empty(t *testing.T) {
	path := writeDataset(t, "")
	if _, err := LoadDataset(path, 0); err == nil {
		t.Error("expected error for empty dataset")
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		status   model.Status
		expected string
	}{
		{model.StatusSupported, LabelSupports},
		{model.StatusConflicting, LabelRefutes},
		{model.StatusPartiallySupported, LabelNotEnoughInfo},
		{model.StatusUnsupported, LabelNotEnoughInfo},
	}
	for _, tt := range tests {
		if got := MapStatus(tt.status); got != tt.expected {
			t.Errorf("MapStatus(%v) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	samples := []Sample{{Claim: "c", Label: LabelSupports}}
	if _, err := Evaluate(samples, nil); err == nil {
		t.Error("expected error for prediction/sample length mismatch")
	}
	if _, err := Evaluate(nil, nil); err == nil {
		t.Error("expected error for empty evaluation")
	}
}

func TestEvaluate_PerfectPredictions(t *testing.T) {
	samples := []Sample{
		{Claim: "a", Label: LabelSupports},
		{Claim: "b", Label: LabelRefutes},
		{Claim: "c", Label: LabelNotEnoughInfo},
	}
	predictions := []string{LabelSupports, LabelRefutes, LabelNotEnoughInfo}

	ev, err := Evaluate(samples, predictions)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if ev.Accuracy != 1.0 {
		t.Errorf("expected accuracy 1.0, got %v", ev.Accuracy)
	}
	if ev.MacroF1 != 1.0 {
		t.Errorf("expected macro F1 1.0, got %v", ev.MacroF1)
	}
	for label, m := range ev.PerLabel {
		if m.F1 != 1.0 {
			t.Errorf("label %s: expected F1 1.0, got %v", label, m.F1)
		}
	}
}

func TestEvaluate_Mixed(t *testing.T) {
	samples := []Sample{
		{Claim: "a", Label: LabelSupports},
		{Claim: "b", Label: LabelSupports},
		{Claim: "c", Label: LabelRefutes},
		{Claim: "d", Label: LabelNotEnoughInfo},
	}
	predictions := []string{
		LabelSupports,      // correct
		LabelNotEnoughInfo, // miss
		LabelRefutes,       // correct
		LabelNotEnoughInfo, // correct
	}

	ev, err := Evaluate(samples, predictions)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if ev.Correct != 3 {
		t.Errorf("expected 3 correct, got %d", ev.Correct)
	}
	if math.Abs(ev.Accuracy-0.75) > 1e-9 {
		t.Errorf("expected accuracy 0.75, got %v", ev.Accuracy)
	}

	// SUPPORTS: tp=1, fp=0, fn=1 -> P=1, R=0.5, F1=2/3
	supports := ev.PerLabel[LabelSupports]
	if math.Abs(supports.Precision-1.0) > 1e-9 {
		t.Errorf("SUPPORTS precision = %v, want 1.0", supports.Precision)
	}
	if math.Abs(supports.Recall-0.5) > 1e-9 {
		t.Errorf("SUPPORTS recall = %v, want 0.5", supports.Recall)
	}
	if math.Abs(supports.F1-2.0/3.0) > 1e-9 {
		t.Errorf("SUPPORTS F1 = %v, want 2/3", supports.F1)
	}
	if supports.Support != 2 {
		t.Errorf("SUPPORTS support = %d, want 2", supports.Support)
	}

	// NOT ENOUGH INFO: tp=1, fp=1, fn=0 -> P=0.5, R=1, F1=2/3
	nei := ev.PerLabel[LabelNotEnoughInfo]
	if math.Abs(nei.Precision-0.5) > 1e-9 || math.Abs(nei.Recall-1.0) > 1e-9 {
		t.Errorf("NEI metrics unexpected: %+v", nei)
	}

	if ev.Confusion[LabelSupports][LabelNotEnoughInfo] != 1 {
		t.Errorf("unexpected confusion matrix: %v", ev.Confusion)
	}
}

func TestEvaluate_NormalizesCase(t *testing.T) {
	samples := []Sample{{Claim: "a", Label: "supports"}}
	ev, err := Evaluate(samples, []string{"SUPPORTS"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if ev.Accuracy != 1.0 {
		t.Errorf("labels must compare case-insensitively, accuracy %v", ev.Accuracy)
	}
}

func TestWriteReport(t *testing.T) {
	ev := Evaluation{
		Total:    2,
		Correct:  1,
		Accuracy: 0.5,
		PerLabel: map[string]LabelMetrics{LabelSupports: {F1: 0.5}},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReport(ev, path); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var loaded Evaluation
	if err := json.Unmarshal(raw, &loaded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if loaded.Accuracy != 0.5 || loaded.Total != 2 {
		t.Errorf("unexpected reloaded report: %+v", loaded)
	}
}
