package finding

import "testing"

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	if m.DesignScore != 100 {
		t.Errorf("DesignScore = %d, want 100", m.DesignScore)
	}
	if m.ValidationQuality != 1.0 {
		t.Errorf("ValidationQuality = %v, want 1.0", m.ValidationQuality)
	}
	if m.TotalIssues != 0 {
		t.Errorf("TotalIssues = %d, want 0", m.TotalIssues)
	}
}

func TestComputeMetrics_Scoring(t *testing.T) {
	findings := []ValidatedFinding{
		{Finding: Finding{Severity: SeverityCritical, Category: CategoryColor}, ValidationScore: 1.0},
		{Finding: Finding{Severity: SeverityHigh, Category: CategorySpacing}, ValidationScore: 0.5},
		{Finding: Finding{Severity: SeverityMedium, Category: CategorySpacing}, ValidationScore: 0.5},
	}

	m := ComputeMetrics(findings)

	// 100 - 2*5 (critical+high) - 1*2 (medium) = 88
	if m.DesignScore != 88 {
		t.Errorf("DesignScore = %d, want 88", m.DesignScore)
	}
	if m.SeverityBreakdown["critical"] != 1 || m.SeverityBreakdown["high"] != 1 {
		t.Errorf("unexpected severity breakdown: %v", m.SeverityBreakdown)
	}
	if m.CategoryBreakdown[CategorySpacing] != 2 {
		t.Errorf("spacing count = %d, want 2", m.CategoryBreakdown[CategorySpacing])
	}
	if want := (1.0 + 0.5 + 0.5) / 3; m.ValidationQuality != want {
		t.Errorf("ValidationQuality = %v, want %v", m.ValidationQuality, want)
	}
}

func TestComputeMetrics_FloorsAtZero(t *testing.T) {
	findings := make([]ValidatedFinding, 30)
	for i := range findings {
		findings[i] = ValidatedFinding{Finding: Finding{Severity: SeverityCritical, Category: CategoryClutter}}
	}
	m := ComputeMetrics(findings)
	if m.DesignScore != 0 {
		t.Errorf("DesignScore = %d, want 0", m.DesignScore)
	}
}
