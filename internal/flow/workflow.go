package flow

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StageClass distinguishes the three mutually exclusive outcomes of
// classifying a status label against a workflow.
type StageClass int

const (
	// StageUnclassified means the label is unknown to the workflow.
	StageUnclassified StageClass = iota
	// StageForward means the label is a canonical pipeline stage.
	StageForward
	// StageBlocked means the label marks a parked/stalled ticket.
	StageBlocked
)

// Classification is the result of classifying a single status label.
// Position is the forward stage index (0 = earliest) and is only
// meaningful when Class is StageForward.
type Classification struct {
	Class    StageClass
	Position int
}

// Workflow is the canonical forward stage order plus the set of blocked
// statuses. The vocabulary is deployment-specific, so a Workflow is built
// once (from config or defaults) and passed explicitly into the detector
// and reconstructor.
type Workflow struct {
	stages  []string
	index   map[string]int
	blocked map[string]bool
}

// NewWorkflow builds a workflow from an ordered stage list and a blocked
// set. Stage names are matched case-insensitively with surrounding
// whitespace trimmed; no substring or fuzzy matching.
func NewWorkflow(stages []string, blocked []string) *Workflow {
	w := &Workflow{
		index:   make(map[string]int),
		blocked: make(map[string]bool),
	}
	for _, stage := range stages {
		normalized := normalizeStage(stage)
		if normalized == "" {
			continue
		}
		if _, exists := w.index[normalized]; exists {
			continue
		}
		w.index[normalized] = len(w.stages)
		w.stages = append(w.stages, normalized)
	}
	for _, stage := range blocked {
		if normalized := normalizeStage(stage); normalized != "" {
			w.blocked[normalized] = true
		}
	}
	return w
}

// DefaultWorkflow returns the standard four-stage software pipeline with a
// single "blocked" parking status.
func DefaultWorkflow() *Workflow {
	return NewWorkflow(
		[]string{"to do", "in progress", "in review", "done"},
		[]string{"blocked"},
	)
}

// Classify resolves a status label to its workflow meaning. Blocked
// membership is checked first and is exclusive of forward-position
// membership.
func (w *Workflow) Classify(label string) Classification {
	normalized := normalizeStage(label)
	if w.blocked[normalized] {
		return Classification{Class: StageBlocked}
	}
	if position, ok := w.index[normalized]; ok {
		return Classification{Class: StageForward, Position: position}
	}
	return Classification{Class: StageUnclassified}
}

// Stages returns the forward stage names in pipeline order.
func (w *Workflow) Stages() []string {
	out := make([]string, len(w.stages))
	copy(out, w.stages)
	return out
}

// BlockedStages returns the blocked status names in no particular order.
func (w *Workflow) BlockedStages() []string {
	out := make([]string, 0, len(w.blocked))
	for stage := range w.blocked {
		out = append(out, stage)
	}
	return out
}

func normalizeStage(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

type workflowFile struct {
	Stages  []string `yaml:"stages"`
	Blocked []string `yaml:"blocked"`
}

// LoadWorkflow reads a workflow definition from a YAML file with `stages`
// (ordered) and `blocked` lists.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	var definition workflowFile
	if err := yaml.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}
	if len(definition.Stages) == 0 {
		return nil, fmt.Errorf("workflow file %s defines no stages", path)
	}
	return NewWorkflow(definition.Stages, definition.Blocked), nil
}
