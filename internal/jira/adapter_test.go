package jira

import (
	"encoding/json"
	"testing"
)

func TestTransitionsFromChangelog(t *testing.T) {
	entries := []ChangelogEntryDTO{
		{
			// Later entry first: the adapter must sort chronologically.
			Created: "2024-01-16T10:00:00.000+0000",
			Author:  &UserDTO{DisplayName: "Dana Dev"},
			Items: []ChangeItemDTO{
				{Field: "status", FromString: "In Progress", ToString: "In Review"},
			},
		},
		{
			Created: "2024-01-15T10:00:00.000+0000",
			Items: []ChangeItemDTO{
				{Field: "assignee", FromString: "a", ToString: "b"},
				{Field: "status", FromString: "To Do", ToString: "In Progress"},
			},
		},
	}

	transitions, err := TransitionsFromChangelog(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transitions) != 2 {
		t.Fatalf("expected 2 transitions (non-status items filtered), got %d", len(transitions))
	}
	if transitions[0].ToStatus != "In Progress" {
		t.Errorf("expected chronological order, first transition to %q", transitions[0].ToStatus)
	}
	if transitions[0].Author != UnknownAuthor {
		t.Errorf("missing author should default to %q, got %q", UnknownAuthor, transitions[0].Author)
	}
	if transitions[1].Author != "Dana Dev" {
		t.Errorf("expected author Dana Dev, got %q", transitions[1].Author)
	}
}

func TestTransitionsFromChangelogMalformedTimestamp(t *testing.T) {
	entries := []ChangelogEntryDTO{
		{
			Created: "yesterday-ish",
			Items:   []ChangeItemDTO{{Field: "status", FromString: "To Do", ToString: "Done"}},
		},
	}

	if _, err := TransitionsFromChangelog(entries); err == nil {
		t.Error("expected error for malformed changelog timestamp")
	}
}

func TestTransitionsFromChangelogEmpty(t *testing.T) {
	transitions, err := TransitionsFromChangelog(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transitions) != 0 {
		t.Errorf("expected no transitions, got %d", len(transitions))
	}
}

func TestFlattenBodyPlainString(t *testing.T) {
	raw, _ := json.Marshal("just plain text")
	if got := FlattenBody(raw); got != "just plain text" {
		t.Errorf("FlattenBody = %q, want plain text passthrough", got)
	}
}

func TestFlattenBodyADF(t *testing.T) {
	adf := `{
		"type": "doc",
		"content": [
			{"type": "paragraph", "content": [
				{"type": "text", "text": "see"},
				{"type": "text", "text": "https://app.testim.io/run/1"}
			]},
			{"type": "paragraph", "content": [
				{"type": "text", "text": "second line"}
			]}
		]
	}`

	got := FlattenBody(json.RawMessage(adf))
	want := "see https://app.testim.io/run/1 second line"
	if got != want {
		t.Errorf("FlattenBody = %q, want %q", got, want)
	}
}

func TestFlattenBodyEmptyAndInvalid(t *testing.T) {
	if got := FlattenBody(nil); got != "" {
		t.Errorf("nil body should flatten to empty, got %q", got)
	}
	if got := FlattenBody(json.RawMessage(`[1,2`)); got != "" {
		t.Errorf("invalid body should flatten to empty, got %q", got)
	}
}

func TestCommentTexts(t *testing.T) {
	bodyA, _ := json.Marshal("first comment")
	issue := &IssueDTO{
		Fields: FieldsDTO{
			Comment: &CommentsDTO{
				Comments: []CommentDTO{
					{Body: bodyA},
					{Body: json.RawMessage(`{"type":"doc","content":[]}`)},
				},
			},
		},
	}

	texts := CommentTexts(issue)
	if len(texts) != 1 || texts[0] != "first comment" {
		t.Errorf("unexpected comment texts: %v", texts)
	}

	if texts := CommentTexts(nil); texts != nil {
		t.Errorf("nil issue should yield no comments, got %v", texts)
	}
}

func TestTotalWorklogHours(t *testing.T) {
	tests := []struct {
		name     string
		worklogs []WorklogDTO
		expected float64
	}{
		{"Empty", nil, 0},
		{"SingleHour", []WorklogDTO{{TimeSpentSeconds: 3600}}, 1},
		{"Mixed", []WorklogDTO{{TimeSpentSeconds: 3600}, {TimeSpentSeconds: 1800}}, 1.5},
		{"Rounded", []WorklogDTO{{TimeSpentSeconds: 4000}}, 1.11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalWorklogHours(tt.worklogs); got != tt.expected {
				t.Errorf("TotalWorklogHours() = %v, want %v", got, tt.expected)
			}
		})
	}
}
