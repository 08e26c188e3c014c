package handlers

import (
	"testing"

	"github.com/google/uuid"
)

func TestPlanReportDeletionOrder(t *testing.T) {
	reportID := uuid.New()
	issueIDs := []uuid.UUID{uuid.New(), uuid.New()}

	steps := planReportDeletion(reportID, issueIDs)

	want := []string{"issue_items", "issue_photos", "report_issues", "reports"}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.Name != want[i] {
			t.Errorf("step %d = %q, want %q (children must go before parents)", i, step.Name, want[i])
		}
	}

	// Child steps target the issue-id batch, the last step the report.
	for _, step := range steps[:3] {
		if len(step.Args) != 1 {
			t.Fatalf("step %q has %d args", step.Name, len(step.Args))
		}
		ids, ok := step.Args[0].([]uuid.UUID)
		if !ok || len(ids) != len(issueIDs) {
			t.Errorf("step %q should batch over all %d issue ids", step.Name, len(issueIDs))
		}
	}
	last := steps[len(steps)-1]
	if last.Cond != "id = ?" || last.Args[0] != interface{}(reportID) {
		t.Errorf("final step should delete the report row, got %q %v", last.Cond, last.Args)
	}
}

func TestPlanReportDeletionNoIssues(t *testing.T) {
	reportID := uuid.New()

	steps := planReportDeletion(reportID, nil)
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want just the report delete", len(steps))
	}
	if steps[0].Name != "reports" {
		t.Errorf("step = %q, want reports", steps[0].Name)
	}
}
