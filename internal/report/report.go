// Package report assembles the per-ticket analysis: transitions,
// bounce-back events, time-in-state periods, logged hours, and Testim
// references.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"prtracker/internal/flow"
	"prtracker/internal/jira"
	"prtracker/internal/testim"
)

const defaultConcurrency = 4

// UnassignedSentinel is reported when an issue has no assignee.
const UnassignedSentinel = "Unassigned"

// TicketReport is the full analysis result for a single ticket.
type TicketReport struct {
	Key              string                 `json:"key"`
	Summary          string                 `json:"summary"`
	Assignee         string                 `json:"assignee"`
	Status           string                 `json:"status"`
	Transitions      []flow.Transition      `json:"transitions"`
	BounceBacks      []flow.BounceBackEvent `json:"bounce_backs"`
	BounceBackCount  int                    `json:"bounce_back_count"`
	TimeInStates     []flow.StatePeriod     `json:"time_in_states"`
	HoursLogged      float64                `json:"hours_logged"`
	Description      string                 `json:"description"`
	TestimReferences []string               `json:"testim_references"`
}

// TicketFailure records why a single ticket's analysis failed. One bad
// ticket never aborts the rest of a batch.
type TicketFailure struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// BatchResult holds the reports and failures of one batch run, in the
// order the keys were requested.
type BatchResult struct {
	Reports  []*TicketReport `json:"reports"`
	Failures []TicketFailure `json:"failures,omitempty"`
}

// Analyzer runs the per-ticket analysis pipeline against a Jira client
// with an injected workflow model. Analyzers are safe for concurrent use;
// the analytic core is stateless and the client guards its own state.
type Analyzer struct {
	client      jira.Client
	workflow    *flow.Workflow
	concurrency int
}

// NewAnalyzer creates an analyzer. concurrency bounds how many tickets a
// batch fetches in parallel; values below 1 fall back to the default.
func NewAnalyzer(client jira.Client, workflow *flow.Workflow, concurrency int) *Analyzer {
	if workflow == nil {
		workflow = flow.DefaultWorkflow()
	}
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &Analyzer{client: client, workflow: workflow, concurrency: concurrency}
}

// AnalyzeTicket fetches one ticket and runs the full analysis: transition
// extraction, bounce-back detection, time-in-state reconstruction, worklog
// totals, and reference extraction.
func (a *Analyzer) AnalyzeTicket(key string) (*TicketReport, error) {
	issue, err := a.client.GetIssue(key)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", key, err)
	}
	changelog, err := a.client.GetChangelog(key)
	if err != nil {
		return nil, fmt.Errorf("fetching changelog for %s: %w", key, err)
	}
	worklogs, err := a.client.GetWorklogs(key)
	if err != nil {
		return nil, fmt.Errorf("fetching worklogs for %s: %w", key, err)
	}

	transitions, err := jira.TransitionsFromChangelog(changelog)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", key, err)
	}

	periods, err := flow.ReconstructPeriods(transitions, issue.Fields.Created)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", key, err)
	}

	bounceBacks := flow.DetectBounceBacks(transitions, a.workflow)

	description := jira.FlattenBody(issue.Fields.Description)
	comments := jira.CommentTexts(issue)

	assignee := UnassignedSentinel
	if issue.Fields.Assignee != nil && issue.Fields.Assignee.DisplayName != "" {
		assignee = issue.Fields.Assignee.DisplayName
	}

	return &TicketReport{
		Key:              key,
		Summary:          issue.Fields.Summary,
		Assignee:         assignee,
		Status:           issue.Fields.Status.Name,
		Transitions:      transitions,
		BounceBacks:      bounceBacks,
		BounceBackCount:  len(bounceBacks),
		TimeInStates:     periods,
		HoursLogged:      jira.TotalWorklogHours(worklogs),
		Description:      description,
		TestimReferences: testim.FindReferences(description, comments),
	}, nil
}

// AnalyzeBatch analyzes many tickets concurrently, bounded by the
// configured concurrency. Per-ticket failures are collected, never
// propagated, so the remaining tickets always complete.
func (a *Analyzer) AnalyzeBatch(ticketKeys []string) BatchResult {
	reports := make([]*TicketReport, len(ticketKeys))
	failures := make([]*TicketFailure, len(ticketKeys))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, key := range ticketKeys {
		i, key := i, key
		g.Go(func() error {
			r, err := a.AnalyzeTicket(key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Ticket analysis failed")
				failures[i] = &TicketFailure{Key: key, Reason: err.Error(), Err: err}
				return nil
			}
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()

	var result BatchResult
	for i := range ticketKeys {
		if reports[i] != nil {
			result.Reports = append(result.Reports, reports[i])
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
		}
	}
	return result
}

// SumStatusHours totals the reconstructed hours a ticket spent in one
// status, matched case-insensitively with surrounding whitespace trimmed.
func SumStatusHours(periods []flow.StatePeriod, status string) float64 {
	target := strings.ToLower(strings.TrimSpace(status))
	var total float64
	for _, p := range periods {
		if strings.ToLower(strings.TrimSpace(p.Status)) == target {
			total += p.DurationHours
		}
	}
	return math.Round(total*100) / 100
}

// BatchSummary aggregates headline numbers across a batch of reports.
type BatchSummary struct {
	Tickets          int     `json:"tickets"`
	TotalBounceBacks int     `json:"total_bounce_backs"`
	AvgBounceBacks   float64 `json:"avg_bounce_backs"`
	TotalHoursLogged float64 `json:"total_hours_logged"`
	AvgReviewHours   float64 `json:"avg_review_hours"`
}

// Summarize computes batch-level aggregates. reviewStatus names the stage
// whose average residency is reported (typically "in review").
func Summarize(reports []*TicketReport, reviewStatus string) BatchSummary {
	summary := BatchSummary{Tickets: len(reports)}
	if len(reports) == 0 {
		return summary
	}

	var reviewHours float64
	for _, r := range reports {
		summary.TotalBounceBacks += r.BounceBackCount
		summary.TotalHoursLogged += r.HoursLogged
		reviewHours += SumStatusHours(r.TimeInStates, reviewStatus)
	}

	count := float64(len(reports))
	summary.AvgBounceBacks = math.Round(float64(summary.TotalBounceBacks)/count*100) / 100
	summary.TotalHoursLogged = math.Round(summary.TotalHoursLogged*100) / 100
	summary.AvgReviewHours = math.Round(reviewHours/count*100) / 100
	return summary
}
