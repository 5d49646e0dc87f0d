// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// IssueState is the normalized state of an issue.
type IssueState string

const (
	StateOpen   IssueState = "open"
	StateClosed IssueState = "closed"
)

// IssueRecord is one GitLab issue flattened to the exported row shape.
type IssueRecord struct {
	// ID is the project-scoped issue number (GitLab iid, e.g. 42)
	ID int

	// Title is the issue's title
	Title string

	// Description is the body text of the issue, empty when GitLab has none
	Description string

	// AuthorName is the display name of the issue author
	AuthorName string

	// State is either open or closed
	State IssueState

	// AssigneeNames holds the assignees' display names in API order
	AssigneeNames []string

	// LabelNames holds the label names in API order
	LabelNames []string

	// CreatedAt is the timestamp when the issue was created
	CreatedAt time.Time

	// TimeEstimate is the estimated effort, nil when GitLab sent no time stats
	TimeEstimate *time.Duration

	// TimeSpent is the total time logged, nil when GitLab sent no time stats
	TimeSpent *time.Duration
}
