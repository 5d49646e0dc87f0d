package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielolaszy/glissues/internal/apperr"
	"github.com/danielolaszy/glissues/internal/gitlab"
	"github.com/danielolaszy/glissues/pkg/models"
)

// CreatedAtLayout is how creation timestamps appear in the spreadsheet.
const CreatedAtLayout = "2006-01-02 15:04:05"

// Normalize maps one raw GitLab issue to an IssueRecord. It fails with a
// MalformedRecordError naming the first required field that is missing.
func Normalize(issue *gitlab.Issue) (models.IssueRecord, error) {
	if issue == nil {
		return models.IssueRecord{}, apperr.New(apperr.KindMalformed, "empty issue in response")
	}
	if issue.IID == 0 {
		return models.IssueRecord{}, malformed("iid")
	}
	if strings.TrimSpace(issue.Title) == "" {
		return models.IssueRecord{}, malformed("title")
	}
	if issue.Author == nil || issue.Author.Name == "" {
		return models.IssueRecord{}, malformed("author.name")
	}
	if issue.CreatedAt == nil {
		return models.IssueRecord{}, malformed("created_at")
	}

	state, err := normalizeState(issue.State)
	if err != nil {
		return models.IssueRecord{}, err
	}

	record := models.IssueRecord{
		ID:            issue.IID,
		Title:         issue.Title,
		Description:   issue.Description,
		AuthorName:    issue.Author.Name,
		State:         state,
		AssigneeNames: gitlab.AssigneeNames(issue),
		LabelNames:    []string(issue.Labels),
		CreatedAt:     *issue.CreatedAt,
	}
	if issue.TimeStats != nil {
		record.TimeEstimate = seconds(issue.TimeStats.TimeEstimate)
		record.TimeSpent = seconds(issue.TimeStats.TotalTimeSpent)
	}

	return record, nil
}

// NormalizeAll maps every issue in order and stops at the first malformed one.
func NormalizeAll(issues []*gitlab.Issue) ([]models.IssueRecord, error) {
	records := make([]models.IssueRecord, 0, len(issues))
	for i, issue := range issues {
		record, err := Normalize(issue)
		if err != nil {
			return nil, fmt.Errorf("issue at position %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Row renders a record as the spreadsheet cells, in Header order.
func Row(r models.IssueRecord) []any {
	return []any{
		r.ID,
		r.Title,
		r.Description,
		r.AuthorName,
		string(r.State),
		JoinNames(r.AssigneeNames),
		JoinNames(r.LabelNames),
		r.CreatedAt.Format(CreatedAtLayout),
		FormatDuration(r.TimeEstimate),
		FormatDuration(r.TimeSpent),
	}
}

// JoinNames joins names with ", ". An empty list gives "".
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}

// FormatDuration renders a tracked duration as "Hh Mm Ss", dropping leading
// zero units. Zero renders as "0" and nil as "".
func FormatDuration(d *time.Duration) string {
	if d == nil {
		return ""
	}

	total := int64(d.Seconds())
	if total == 0 {
		return "0"
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

func normalizeState(state string) (models.IssueState, error) {
	switch state {
	case "opened", "open":
		return models.StateOpen, nil
	case "closed":
		return models.StateClosed, nil
	case "":
		return "", malformed("state")
	default:
		return "", apperr.New(apperr.KindMalformed, "unexpected issue state %q", state)
	}
}

func seconds(v int) *time.Duration {
	d := time.Duration(v) * time.Second
	return &d
}

func malformed(field string) error {
	return apperr.New(apperr.KindMalformed, "missing required field %q", field)
}
