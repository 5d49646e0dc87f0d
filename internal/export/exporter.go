// Package export turns GitLab issues into a spreadsheet.
package export

import (
	"context"
	"fmt"

	"github.com/danielolaszy/glissues/internal/filter"
	"github.com/danielolaszy/glissues/internal/gitlab"
	"github.com/danielolaszy/glissues/internal/logging"
	"github.com/danielolaszy/glissues/pkg/models"
)

// IssueSource lists the raw issues of a project.
type IssueSource interface {
	ListIssues(ctx context.Context, r filter.Range) ([]*gitlab.Issue, error)
}

// RecordWriter persists normalized records to path.
type RecordWriter interface {
	Write(path string, records []models.IssueRecord) error
}

// Result describes a finished export.
type Result struct {
	Path  string
	Count int
}

// Exporter runs fetch, normalize and write in sequence.
type Exporter struct {
	source IssueSource
	writer RecordWriter
}

// NewExporter creates an Exporter.
func NewExporter(source IssueSource, writer RecordWriter) *Exporter {
	return &Exporter{source: source, writer: writer}
}

// Run exports every issue created inside r to path. Nothing is written unless
// fetching and normalizing both succeed. Zero issues still produce a file
// holding only the header.
func (e *Exporter) Run(ctx context.Context, r filter.Range, path string) (Result, error) {
	issues, err := e.source.ListIssues(ctx, r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch issues: %w", err)
	}

	records, err := NormalizeAll(issues)
	if err != nil {
		return Result{}, fmt.Errorf("failed to normalize issues: %w", err)
	}

	if err := e.writer.Write(path, records); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Info("export complete", "path", path, "count", len(records))
	return Result{Path: path, Count: len(records)}, nil
}
