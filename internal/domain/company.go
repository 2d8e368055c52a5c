// Package domain contains core domain types for the AccountGen application.
package domain

// RisksOpportunities holds the two halves of the risk analysis section.
type RisksOpportunities struct {
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
}

// CompanyData is an immutable snapshot of one research result. The resolver
// guarantees that Name is non-empty and every list has at least one entry.
type CompanyData struct {
	Name                 string             `json:"name"`
	ExecutiveSummary     string             `json:"executiveSummary"`
	FinancialPerformance string             `json:"financialPerformance"`
	KeyDecisionMakers    []string           `json:"keyDecisionMakers"`
	StrategicGoals       []string           `json:"strategicGoals"`
	RisksOpportunities   RisksOpportunities `json:"risksOpportunities"`
}

// Field names a single editable section of a CompanyData document.
type Field string

const (
	FieldExecutiveSummary     Field = "executiveSummary"
	FieldFinancialPerformance Field = "financialPerformance"
	FieldKeyDecisionMakers    Field = "keyDecisionMakers"
	FieldStrategicGoals       Field = "strategicGoals"
	FieldRisks                Field = "risks"
	FieldOpportunities        Field = "opportunities"
)

// EditContent carries the replacement value for one section. Text is used for
// the prose sections, Items for the list sections.
type EditContent struct {
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
}

// ApplyEdit returns a copy of data with exactly the named field replaced.
// Unknown fields leave the snapshot unchanged. Slices are copied so the
// result shares no backing arrays with the caller's content.
func ApplyEdit(data CompanyData, field Field, content EditContent) CompanyData {
	switch field {
	case FieldExecutiveSummary:
		data.ExecutiveSummary = content.Text
	case FieldFinancialPerformance:
		data.FinancialPerformance = content.Text
	case FieldKeyDecisionMakers:
		data.KeyDecisionMakers = copyStrings(content.Items)
	case FieldStrategicGoals:
		data.StrategicGoals = copyStrings(content.Items)
	case FieldRisks:
		data.RisksOpportunities.Risks = copyStrings(content.Items)
	case FieldOpportunities:
		data.RisksOpportunities.Opportunities = copyStrings(content.Items)
	}
	return data
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
