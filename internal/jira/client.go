package jira

import "time"

// Client is the interface for the subset of the Jira Cloud REST API the
// analyzer needs.
type Client interface {
	GetIssue(key string) (*IssueDTO, error)
	GetChangelog(key string) ([]ChangelogEntryDTO, error)
	GetWorklogs(key string) ([]WorklogDTO, error)
}

// Config holds the authentication and connection settings for Jira Cloud.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string

	// RequestDelay is the minimum spacing between API requests.
	RequestDelay time.Duration
}

// NewClient creates a new Jira client based on the provided configuration.
func NewClient(cfg Config) Client {
	return newCloudClient(cfg)
}
