package jira

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"prtracker/internal/flow"
)

// UnknownAuthor is the sentinel used when a changelog entry carries no
// author display name.
const UnknownAuthor = "Unknown"

// TransitionsFromChangelog converts raw changelog entries into a sorted
// status-transition list for the analytic core. Only items whose changed
// field is the issue status are relevant; everything else is filtered out
// here so partial records never reach the detector or reconstructor.
func TransitionsFromChangelog(entries []ChangelogEntryDTO) ([]flow.Transition, error) {
	var transitions []flow.Transition

	for _, entry := range entries {
		if entry.Created == "" {
			log.Warn().Msg("Skipping changelog entry without created timestamp")
			continue
		}
		author := UnknownAuthor
		if entry.Author != nil && entry.Author.DisplayName != "" {
			author = entry.Author.DisplayName
		}
		for _, item := range entry.Items {
			if item.Field != "status" {
				continue
			}
			transitions = append(transitions, flow.Transition{
				Timestamp:  entry.Created,
				FromStatus: item.FromString,
				ToStatus:   item.ToString,
				Author:     author,
			})
		}
	}

	return flow.SortTransitions(transitions)
}

// adfNode is the recursive shape of an Atlassian Document Format body.
type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

// FlattenBody extracts plain text from a description or comment body.
// API v2 returns plain strings, API v3 returns an ADF tree; both are
// accepted. Unparseable bodies flatten to the empty string.
func FlattenBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var root adfNode
	if err := json.Unmarshal(raw, &root); err != nil {
		log.Warn().Err(err).Msg("Failed to parse rich-text body, treating as empty")
		return ""
	}

	var parts []string
	collectText(root, &parts)
	return strings.Join(parts, " ")
}

func collectText(node adfNode, parts *[]string) {
	if node.Type == "text" && node.Text != "" {
		*parts = append(*parts, node.Text)
	}
	for _, child := range node.Content {
		collectText(child, parts)
	}
}

// CommentTexts flattens every comment body on the issue to plain text,
// dropping comments that flatten to nothing.
func CommentTexts(issue *IssueDTO) []string {
	if issue == nil || issue.Fields.Comment == nil {
		return nil
	}
	var texts []string
	for _, comment := range issue.Fields.Comment.Comments {
		if text := FlattenBody(comment.Body); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// TotalWorklogHours sums logged time across worklog entries, in hours
// rounded to two decimal places.
func TotalWorklogHours(worklogs []WorklogDTO) float64 {
	var totalSeconds int64
	for _, entry := range worklogs {
		totalSeconds += entry.TimeSpentSeconds
	}
	return math.Round(float64(totalSeconds)/3600.0*100) / 100
}
