package domain

import (
	"testing"
)

func sampleCompany() CompanyData {
	return CompanyData{
		Name:                 "Acme Corp",
		ExecutiveSummary:     "Original summary",
		FinancialPerformance: "Original performance",
		KeyDecisionMakers:    []string{"CEO - runs things", "CFO - counts things"},
		StrategicGoals:       []string{"Grow", "Ship"},
		RisksOpportunities: RisksOpportunities{
			Risks:         []string{"Competition"},
			Opportunities: []string{"New markets"},
		},
	}
}

func TestApplyEditReplacesOnlyNamedField(t *testing.T) {
	t.Parallel()

	original := sampleCompany()
	updated := ApplyEdit(original, FieldExecutiveSummary, EditContent{Text: "New summary"})

	if updated.ExecutiveSummary != "New summary" {
		t.Errorf("expected updated summary, got %q", updated.ExecutiveSummary)
	}
	if updated.FinancialPerformance != original.FinancialPerformance {
		t.Errorf("financial performance changed unexpectedly")
	}
	if len(updated.StrategicGoals) != len(original.StrategicGoals) {
		t.Errorf("strategic goals changed unexpectedly")
	}
}

func TestApplyEditDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := sampleCompany()
	updated := ApplyEdit(original, FieldRisks, EditContent{Items: []string{"New risk"}})

	if len(original.RisksOpportunities.Risks) != 1 || original.RisksOpportunities.Risks[0] != "Competition" {
		t.Errorf("input was mutated: %v", original.RisksOpportunities.Risks)
	}
	if len(updated.RisksOpportunities.Risks) != 1 || updated.RisksOpportunities.Risks[0] != "New risk" {
		t.Errorf("expected replaced risks, got %v", updated.RisksOpportunities.Risks)
	}

	// Mutating the returned slice must not leak back into the input.
	updated.RisksOpportunities.Risks[0] = "changed"
	if original.RisksOpportunities.Risks[0] != "Competition" {
		t.Errorf("slices are shared between input and output")
	}
}

func TestApplyEditListFields(t *testing.T) {
	t.Parallel()

	original := sampleCompany()

	tests := []struct {
		field Field
		get   func(CompanyData) []string
	}{
		{FieldKeyDecisionMakers, func(d CompanyData) []string { return d.KeyDecisionMakers }},
		{FieldStrategicGoals, func(d CompanyData) []string { return d.StrategicGoals }},
		{FieldRisks, func(d CompanyData) []string { return d.RisksOpportunities.Risks }},
		{FieldOpportunities, func(d CompanyData) []string { return d.RisksOpportunities.Opportunities }},
	}
	for _, tc := range tests {
		updated := ApplyEdit(original, tc.field, EditContent{Items: []string{"a", "b"}})
		got := tc.get(updated)
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("field %s: got %v", tc.field, got)
		}
	}
}
