package finding

// Metrics aggregates findings for one analyzed file.
type Metrics struct {
	// TotalIssues is the number of accepted findings.
	TotalIssues int `json:"total_issues"`

	// SeverityBreakdown counts findings per severity string.
	SeverityBreakdown map[string]int `json:"severity_breakdown"`

	// CategoryBreakdown counts findings per category.
	CategoryBreakdown map[Category]int `json:"category_breakdown"`

	// DesignScore grades the file from 0 to 100. Critical and high
	// findings cost 5 points each, medium findings 2 points.
	DesignScore int `json:"design_score"`

	// ValidationQuality is the mean validation score of all findings,
	// 1.0 for a clean file.
	ValidationQuality float64 `json:"validation_quality"`
}

// ComputeMetrics derives per-file metrics from validated findings.
func ComputeMetrics(findings []ValidatedFinding) Metrics {
	m := Metrics{
		SeverityBreakdown: map[string]int{
			SeverityCritical.String(): 0,
			SeverityHigh.String():     0,
			SeverityMedium.String():   0,
			SeverityLow.String():      0,
		},
		CategoryBreakdown: make(map[Category]int, len(Categories())),
	}
	for _, c := range Categories() {
		m.CategoryBreakdown[c] = 0
	}

	if len(findings) == 0 {
		m.DesignScore = 100
		m.ValidationQuality = 1.0
		return m
	}

	m.TotalIssues = len(findings)
	heavy := 0
	var scoreSum float64
	for _, f := range findings {
		m.SeverityBreakdown[f.Severity.String()]++
		if _, known := m.CategoryBreakdown[f.Category]; known {
			m.CategoryBreakdown[f.Category]++
		}
		if f.Severity.IsAtLeast(SeverityHigh) {
			heavy++
		}
		scoreSum += f.ValidationScore
	}

	score := 100 - heavy*5 - m.SeverityBreakdown[SeverityMedium.String()]*2
	if score < 0 {
		score = 0
	}
	m.DesignScore = score
	m.ValidationQuality = scoreSum / float64(len(findings))
	return m
}
