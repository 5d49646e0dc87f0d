package gitlab

import (
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Issue is one element of the issues list response.
type Issue = gitlab.Issue

// AssigneeNames returns the display names of the issue's assignees in the
// order GitLab lists them.
func AssigneeNames(issue *Issue) []string {
	if len(issue.Assignees) == 0 {
		return nil
	}
	names := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		if a != nil {
			names = append(names, a.Name)
		}
	}
	return names
}
