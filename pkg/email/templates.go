package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// StatementLine is one commission row on a settlement statement.
type StatementLine struct {
	Type   string
	Amount string
}

// SettlementStatementData feeds the statement sent when a month is paid out.
type SettlementStatementData struct {
	GymName   string
	StaffName string
	Month     string
	Currency  string
	Lines     []StatementLine
	Total     string
	PaidAt    time.Time
}

var statementHTML = template.Must(template.New("statement").Parse(`<!doctype html>
<html dir="auto"><body style="font-family:sans-serif">
<h2>{{.GymName}}</h2>
<p>Commission statement for <strong>{{.StaffName}}</strong>, {{.Month}}</p>
<table cellpadding="6" style="border-collapse:collapse">
{{range .Lines}}<tr><td>{{.Type}}</td><td style="text-align:right">{{.Amount}} {{$.Currency}}</td></tr>
{{end}}<tr><th>Total</th><th style="text-align:right">{{.Total}} {{.Currency}}</th></tr>
</table>
<p>Paid on {{.PaidAt.Format "2006-01-02 15:04"}}</p>
</body></html>`))

// BuildSettlementStatement renders the paid-out statement for one staff member.
func BuildSettlementStatement(to string, data SettlementStatementData) (Message, error) {
	if data.GymName == "" {
		data.GymName = "Gym"
	}

	var html bytes.Buffer
	if err := statementHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render statement: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s\nCommission statement for %s, %s\n\n", data.GymName, data.StaffName, data.Month)
	for _, l := range data.Lines {
		fmt.Fprintf(&text, "%-40s %10s %s\n", l.Type, l.Amount, data.Currency)
	}
	fmt.Fprintf(&text, "\n%-40s %10s %s\n", "Total", data.Total, data.Currency)

	return Message{
		To:       []string{to},
		Subject:  fmt.Sprintf("%s commission statement %s", data.GymName, data.Month),
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}
