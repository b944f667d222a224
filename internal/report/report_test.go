package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"prtracker/internal/flow"
	"prtracker/internal/jira"
)

// fakeClient serves canned issue data and fails on demand.
type fakeClient struct {
	issues     map[string]*jira.IssueDTO
	changelogs map[string][]jira.ChangelogEntryDTO
	worklogs   map[string][]jira.WorklogDTO
	failKeys   map[string]bool
}

func (f *fakeClient) GetIssue(key string) (*jira.IssueDTO, error) {
	if f.failKeys[key] {
		return nil, fmt.Errorf("issue %s not found", key)
	}
	if issue, ok := f.issues[key]; ok {
		return issue, nil
	}
	return nil, fmt.Errorf("issue %s not found", key)
}

func (f *fakeClient) GetChangelog(key string) ([]jira.ChangelogEntryDTO, error) {
	return f.changelogs[key], nil
}

func (f *fakeClient) GetWorklogs(key string) ([]jira.WorklogDTO, error) {
	return f.worklogs[key], nil
}

func rawString(t *testing.T, s string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func newFakeClient(t *testing.T) *fakeClient {
	t.Helper()
	return &fakeClient{
		issues: map[string]*jira.IssueDTO{
			"PROJ-1": {
				Key: "PROJ-1",
				Fields: jira.FieldsDTO{
					Summary:     "Fix login flaky test",
					Assignee:    &jira.UserDTO{DisplayName: "Dana Dev"},
					Created:     "2024-01-14T10:00:00.000+0000",
					Description: rawString(t, "covered by https://app.testim.io/run/abc123"),
				},
			},
		},
		changelogs: map[string][]jira.ChangelogEntryDTO{
			"PROJ-1": {
				{
					Created: "2024-01-15T10:00:00.000+0000",
					Author:  &jira.UserDTO{DisplayName: "Dana Dev"},
					Items:   []jira.ChangeItemDTO{{Field: "status", FromString: "To Do", ToString: "In Progress"}},
				},
				{
					Created: "2024-01-16T10:00:00.000+0000",
					Author:  &jira.UserDTO{DisplayName: "Dana Dev"},
					Items:   []jira.ChangeItemDTO{{Field: "status", FromString: "In Progress", ToString: "In Review"}},
				},
				{
					Created: "2024-01-17T10:00:00.000+0000",
					Author:  &jira.UserDTO{DisplayName: "Rev Iewer"},
					Items:   []jira.ChangeItemDTO{{Field: "status", FromString: "In Review", ToString: "In Progress"}},
				},
			},
		},
		worklogs: map[string][]jira.WorklogDTO{
			"PROJ-1": {{TimeSpentSeconds: 7200}},
		},
		failKeys: make(map[string]bool),
	}
}

func TestAnalyzeTicket(t *testing.T) {
	analyzer := NewAnalyzer(newFakeClient(t), flow.DefaultWorkflow(), 1)

	r, err := analyzer.AnalyzeTicket("PROJ-1")
	if err != nil {
		t.Fatalf("AnalyzeTicket failed: %v", err)
	}

	if r.Summary != "Fix login flaky test" || r.Assignee != "Dana Dev" {
		t.Errorf("unexpected header fields: %+v", r)
	}
	if len(r.Transitions) != 3 {
		t.Errorf("expected 3 transitions, got %d", len(r.Transitions))
	}
	if r.BounceBackCount != 1 {
		t.Errorf("expected 1 bounce-back (In Review -> In Progress), got %d", r.BounceBackCount)
	}
	if r.HoursLogged != 2.0 {
		t.Errorf("expected 2.0 logged hours, got %v", r.HoursLogged)
	}
	if len(r.TestimReferences) != 1 || r.TestimReferences[0] != "https://app.testim.io/run/abc123" {
		t.Errorf("unexpected references: %v", r.TestimReferences)
	}

	// Creation precedes the first transition, so the reconstructed history
	// has a leading To Do period plus one period per transition.
	if len(r.TimeInStates) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(r.TimeInStates))
	}
	if r.TimeInStates[0].Status != "To Do" || r.TimeInStates[0].DurationHours != 24.0 {
		t.Errorf("unexpected leading period: %+v", r.TimeInStates[0])
	}
}

func TestAnalyzeTicketMissingAssignee(t *testing.T) {
	client := newFakeClient(t)
	client.issues["PROJ-1"].Fields.Assignee = nil
	analyzer := NewAnalyzer(client, flow.DefaultWorkflow(), 1)

	r, err := analyzer.AnalyzeTicket("PROJ-1")
	if err != nil {
		t.Fatalf("AnalyzeTicket failed: %v", err)
	}
	if r.Assignee != UnassignedSentinel {
		t.Errorf("expected %q, got %q", UnassignedSentinel, r.Assignee)
	}
}

func TestAnalyzeBatchIsolatesFailures(t *testing.T) {
	client := newFakeClient(t)
	analyzer := NewAnalyzer(client, flow.DefaultWorkflow(), 2)

	result := analyzer.AnalyzeBatch([]string{"PROJ-404", "PROJ-1"})

	if len(result.Reports) != 1 || result.Reports[0].Key != "PROJ-1" {
		t.Errorf("expected the healthy ticket to survive, got %+v", result.Reports)
	}
	if len(result.Failures) != 1 || result.Failures[0].Key != "PROJ-404" {
		t.Fatalf("expected one failure for PROJ-404, got %+v", result.Failures)
	}
	if !strings.Contains(result.Failures[0].Reason, "PROJ-404") {
		t.Errorf("failure reason should name the ticket: %q", result.Failures[0].Reason)
	}
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	client := newFakeClient(t)
	client.issues["PROJ-2"] = &jira.IssueDTO{
		Key:    "PROJ-2",
		Fields: jira.FieldsDTO{Summary: "Second"},
	}
	analyzer := NewAnalyzer(client, flow.DefaultWorkflow(), 4)

	result := analyzer.AnalyzeBatch([]string{"PROJ-2", "PROJ-1"})

	if len(result.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(result.Reports))
	}
	if result.Reports[0].Key != "PROJ-2" || result.Reports[1].Key != "PROJ-1" {
		t.Errorf("reports out of request order: %s, %s", result.Reports[0].Key, result.Reports[1].Key)
	}
}

func TestSumStatusHours(t *testing.T) {
	periods := []flow.StatePeriod{
		{Status: "In Review", DurationHours: 3.5},
		{Status: "in review ", DurationHours: 1.5},
		{Status: "In Progress", DurationHours: 10},
	}

	if got := SumStatusHours(periods, "In Review"); got != 5.0 {
		t.Errorf("SumStatusHours = %v, want 5.0", got)
	}
	if got := SumStatusHours(periods, "Done"); got != 0 {
		t.Errorf("SumStatusHours for absent status = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	reports := []*TicketReport{
		{
			BounceBackCount: 2,
			HoursLogged:     3,
			TimeInStates:    []flow.StatePeriod{{Status: "In Review", DurationHours: 4}},
		},
		{
			BounceBackCount: 0,
			HoursLogged:     1,
			TimeInStates:    []flow.StatePeriod{{Status: "In Review", DurationHours: 2}},
		},
	}

	summary := Summarize(reports, "in review")

	if summary.Tickets != 2 || summary.TotalBounceBacks != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.AvgBounceBacks != 1.0 {
		t.Errorf("AvgBounceBacks = %v, want 1.0", summary.AvgBounceBacks)
	}
	if summary.TotalHoursLogged != 4.0 {
		t.Errorf("TotalHoursLogged = %v, want 4.0", summary.TotalHoursLogged)
	}
	if summary.AvgReviewHours != 3.0 {
		t.Errorf("AvgReviewHours = %v, want 3.0", summary.AvgReviewHours)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, "in review")
	if summary.Tickets != 0 || summary.AvgBounceBacks != 0 {
		t.Errorf("unexpected empty summary: %+v", summary)
	}
}
