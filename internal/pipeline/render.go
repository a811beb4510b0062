package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/veritaslabs/veritas/internal/model"
)

// Renderer writes verification outcomes as JSON, Markdown, or a short
// terminal summary.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer. A nil writer defaults to stdout.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the outcome as indented JSON to path
func (r *Renderer) RenderJSON(outcome *Outcome, path string) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report to path
func (r *Renderer) RenderMarkdown(outcome *Outcome, path string) error {
	var b strings.Builder

	b.WriteString("# Truthfulness Report\n\n")
	if outcome.Question != "" {
		fmt.Fprintf(&b, "**Question:** %s\n\n", outcome.Question)
	}
	fmt.Fprintf(&b, "**Answer:** %s\n\n", outcome.Answer)

	rep := outcome.Report
	fmt.Fprintf(&b, "## Score: %.1f / 100 (%s)\n\n", rep.Score, rep.Category)
	fmt.Fprintf(&b, "%s\n\n", rep.Description)
	fmt.Fprintf(&b, "**Risk level:** %s\n\n", rep.RiskLevel)

	if outcome.NoClaims {
		b.WriteString("> No verifiable claims could be extracted from this answer.\n\n")
	}

	b.WriteString("## Claim Summary\n\n")
	fmt.Fprintf(&b, "| Status | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Supported | %d |\n", rep.ClaimSummary.Supported)
	fmt.Fprintf(&b, "| Partially supported | %d |\n", rep.ClaimSummary.PartiallySupported)
	fmt.Fprintf(&b, "| Unsupported | %d |\n", rep.ClaimSummary.Unsupported)
	fmt.Fprintf(&b, "| Conflicting | %d |\n", rep.ClaimSummary.Conflicting)
	fmt.Fprintf(&b, "| **Total** | %d |\n\n", rep.ClaimSummary.TotalClaims)

	writeBreakdown(&b, "Supported claims", rep.ClaimBreakdown.Supported)
	writeBreakdown(&b, "Partially supported claims", rep.ClaimBreakdown.PartiallySupported)
	writeBreakdown(&b, "Unsupported claims", rep.ClaimBreakdown.Unsupported)
	writeBreakdown(&b, "Conflicting claims", rep.ClaimBreakdown.Conflicting)

	if len(outcome.Results) > 0 {
		b.WriteString("## Claim Details\n\n")
		for _, res := range outcome.Results {
			fmt.Fprintf(&b, "- **%s** (%s, confidence %.2f): %s\n",
				res.Claim.Text, res.Status, res.Confidence, res.Reasoning)
		}
		b.WriteString("\n")
	}

	if len(rep.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range rep.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	sum := outcome.Highlighted.Summary
	if sum.HighRiskCount > 0 || sum.MediumRiskCount > 0 {
		b.WriteString("## Risky Sentences\n\n")
		for _, s := range sum.HighRiskSentences {
			fmt.Fprintf(&b, "- HIGH: %s\n", s)
		}
		for _, s := range sum.MediumRiskSentences {
			fmt.Fprintf(&b, "- MEDIUM: %s\n", s)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Highlighted Answer\n\n")
	b.WriteString(outcome.Highlighted.Highlighted)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeBreakdown(b *strings.Builder, heading string, claims []string) {
	if len(claims) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, c := range claims {
		fmt.Fprintf(b, "- %s\n", c)
	}
	b.WriteString("\n")
}

// RenderSummary prints a short summary to the renderer's writer
func (r *Renderer) RenderSummary(outcome *Outcome) {
	rep := outcome.Report

	fmt.Fprintf(r.out, "\nTruthfulness: %.1f/100 (%s, risk: %s)\n", rep.Score, rep.Category, rep.RiskLevel)
	fmt.Fprintf(r.out, "Claims: %d total, %d supported, %d partial, %d unsupported, %d conflicting\n",
		rep.ClaimSummary.TotalClaims,
		rep.ClaimSummary.Supported,
		rep.ClaimSummary.PartiallySupported,
		rep.ClaimSummary.Unsupported,
		rep.ClaimSummary.Conflicting)

	if outcome.NoClaims {
		fmt.Fprintln(r.out, "Note: no verifiable claims could be extracted from this answer.")
	}

	for _, res := range outcome.Results {
		fmt.Fprintf(r.out, "  [%s] %s (%.2f)\n", statusTag(res.Status), res.Claim.Text, res.Confidence)
	}

	sum := outcome.Highlighted.Summary
	if sum.HighRiskCount > 0 {
		fmt.Fprintf(r.out, "High-risk sentences: %d\n", sum.HighRiskCount)
	}
	if sum.MediumRiskCount > 0 {
		fmt.Fprintf(r.out, "Medium-risk sentences: %d\n", sum.MediumRiskCount)
	}
}

func statusTag(s model.Status) string {
	switch s {
	case model.StatusSupported:
		return "OK"
	case model.StatusPartiallySupported:
		return "PARTIAL"
	case model.StatusConflicting:
		return "CONFLICT"
	default:
		return "UNSUPPORTED"
	}
}
