package jira

import "encoding/json"

// IssueDTO represents a single issue fetched from the Jira Cloud REST API.
type IssueDTO struct {
	Key    string    `json:"key"`
	Fields FieldsDTO `json:"fields"`
}

// FieldsDTO contains the specific issue fields we care about.
type FieldsDTO struct {
	Summary string `json:"summary"`
	Status  struct {
		Name string `json:"name"`
	} `json:"status"`
	Assignee *UserDTO `json:"assignee"`
	// Description is either a plain string (API v2) or an Atlassian
	// Document Format tree (API v3); kept raw and flattened by the adapter.
	Description json.RawMessage `json:"description"`
	Comment     *CommentsDTO    `json:"comment"`
	Created     string          `json:"created"`
}

// UserDTO is a Jira user reference.
type UserDTO struct {
	DisplayName string `json:"displayName"`
}

// CommentsDTO is the comment container embedded in the issue fields.
type CommentsDTO struct {
	Comments []CommentDTO `json:"comments"`
}

// CommentDTO is a single issue comment; the body shares the description's
// string-or-ADF duality.
type CommentDTO struct {
	Body json.RawMessage `json:"body"`
}

// ChangelogResponse is one page of an issue's changelog.
type ChangelogResponse struct {
	StartAt    int                 `json:"startAt"`
	MaxResults int                 `json:"maxResults"`
	Total      int                 `json:"total"`
	Values     []ChangelogEntryDTO `json:"values"`
}

// ChangelogEntryDTO is a single entry in the changelog, grouping the field
// changes made in one edit.
type ChangelogEntryDTO struct {
	Created string          `json:"created"`
	Author  *UserDTO        `json:"author"`
	Items   []ChangeItemDTO `json:"items"`
}

// ChangeItemDTO is a single field change within a changelog entry.
type ChangeItemDTO struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// WorklogResponse is the container for an issue's logged-time entries.
type WorklogResponse struct {
	Worklogs []WorklogDTO `json:"worklogs"`
}

// WorklogDTO is a single logged-time entry.
type WorklogDTO struct {
	TimeSpentSeconds int64 `json:"timeSpentSeconds"`
}
