package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// Generator renders compliance reports for analyzed calls
type Generator struct{}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GeneratePDF renders a compliance report for a call and its issues as
// a PDF document
func (g *Generator) GeneratePDF(call *entities.Call, issues []entities.ComplianceIssue) ([]byte, error) {
	if call == nil {
		return nil, fmt.Errorf("call cannot be nil")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Compliance Report - %s", call.Title), false)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Compliance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)
	pdf.SetTextColor(0, 0, 0)

	// Call metadata
	g.metadataRow(pdf, "Call", call.Title)
	if call.AdvisorName != "" {
		g.metadataRow(pdf, "Advisor", call.AdvisorName)
	}
	if call.ClientRef != "" {
		g.metadataRow(pdf, "Client Ref", call.ClientRef)
	}
	g.metadataRow(pdf, "Status", string(call.Status))
	if call.DurationSeconds > 0 {
		g.metadataRow(pdf, "Duration", formatDuration(call.DurationSeconds))
	}
	if call.AnalyzedAt != nil {
		g.metadataRow(pdf, "Analyzed At", call.AnalyzedAt.Format("2006-01-02 15:04 MST"))
		g.metadataRow(pdf, "Method", call.AnalysisMethod)
	}
	pdf.Ln(6)

	// Risk summary
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Risk Assessment")
	pdf.Ln(10)

	r, gr, b := riskColor(call.RiskLevel)
	pdf.SetFillColor(r, gr, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 10, fmt.Sprintf("%s  (%.1f / 100)", strings.ToUpper(string(call.RiskLevel)), call.RiskScore),
		"", 0, "C", true, 0, "")
	pdf.Ln(14)
	pdf.SetTextColor(0, 0, 0)

	// Issues
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Detected Issues (%d)", len(issues)))
	pdf.Ln(10)

	if len(issues) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 8, "No compliance issues were detected on this call.")
		pdf.Ln(8)
	}

	for i, issue := range issues {
		g.renderIssue(pdf, i+1, issue)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) metadataRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *Generator) renderIssue(pdf *fpdf.Fpdf, index int, issue entities.ComplianceIssue) {
	pdf.SetFont("Helvetica", "B", 11)
	r, gr, b := severityColor(issue.Severity)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 7, fmt.Sprintf("%d. %s  [%s]", index, issue.Category, strings.ToUpper(string(issue.Severity))))
	pdf.Ln(7)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "", 10)
	if issue.Rationale != "" {
		pdf.MultiCell(0, 5, issue.Rationale, "", "L", false)
	}
	if issue.RegReference != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 5, fmt.Sprintf("Regulation: %s", issue.RegReference))
		pdf.Ln(5)
	}
	if issue.EvidenceSnippet != nil && *issue.EvidenceSnippet != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetFillColor(245, 245, 245)
		evidence := fmt.Sprintf("\"...%s...\"", *issue.EvidenceSnippet)
		if issue.EvidenceStartMs != nil && issue.EvidenceEndMs != nil {
			evidence = fmt.Sprintf("%s  (%s - %s)", evidence,
				formatTimestamp(*issue.EvidenceStartMs), formatTimestamp(*issue.EvidenceEndMs))
		}
		pdf.MultiCell(0, 5, evidence, "", "L", true)
	}
	if issue.ModelRationale != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 4, fmt.Sprintf("%s (%s)", issue.ModelRationale, issue.ModelVersion), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)
}

func riskColor(level entities.RiskLevel) (int, int, int) {
	switch level {
	case entities.RiskLevelCritical:
		return 192, 28, 40
	case entities.RiskLevelHigh:
		return 230, 97, 0
	case entities.RiskLevelMedium:
		return 229, 165, 10
	default:
		return 38, 162, 105
	}
}

func severityColor(severity entities.Severity) (int, int, int) {
	switch severity {
	case entities.SeverityCritical:
		return 192, 28, 40
	case entities.SeverityHigh:
		return 230, 97, 0
	case entities.SeverityMedium:
		return 229, 165, 10
	default:
		return 38, 162, 105
	}
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func formatTimestamp(ms int64) string {
	totalSeconds := ms / 1000
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
