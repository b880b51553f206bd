package session

import "math"

// ReportItem carries everything a results UI needs for one question without
// re-deriving correctness. Answered distinguishes "no answer" from an answer
// that was simply wrong; both score as incorrect.
type ReportItem struct {
	Question Question `json:"question"`
	Answered bool     `json:"answered"`
	Correct  bool     `json:"correct"`

	SelectedChoices []string `json:"selected_choices,omitempty"`
	SubmittedPairs  []Pair   `json:"submitted_pairs,omitempty"`

	CorrectChoices []string `json:"correct_choices,omitempty"`
	CorrectPairs   []Pair   `json:"correct_pairs,omitempty"`

	TimeSpent int `json:"time_spent"`
}

// Report is the read-only summary derived when a session completes.
type Report struct {
	CorrectCount int          `json:"correct_count"`
	TotalCount   int          `json:"total_count"`
	Percentage   int          `json:"percentage"`
	Items        []ReportItem `json:"items"`
}

// Summarize aggregates all recorded answers into a score summary plus a
// per-question report. Questions without a recorded answer count as
// incorrect. TotalCount counts questions, not points.
func Summarize(questions []Question, answers map[string]*Answer) *Report {
	report := &Report{
		TotalCount: len(questions),
		Items:      make([]ReportItem, 0, len(questions)),
	}

	for _, q := range questions {
		item := ReportItem{Question: q}
		switch q.Kind {
		case KindChoice:
			item.CorrectChoices = q.CorrectChoices()
		case KindMatching:
			item.CorrectPairs = append([]Pair(nil), q.CorrectPairs...)
		}

		if a, ok := answers[q.ID]; ok {
			item.Answered = !a.Empty()
			item.Correct = a.Correct
			item.SelectedChoices = append([]string(nil), a.Selected...)
			item.SubmittedPairs = append([]Pair(nil), a.Pairs...)
			item.TimeSpent = a.TimeSpent
		}

		if item.Correct {
			report.CorrectCount++
		}
		report.Items = append(report.Items, item)
	}

	if report.TotalCount > 0 {
		report.Percentage = int(math.Round(float64(report.CorrectCount) / float64(report.TotalCount) * 100))
	}

	return report
}
