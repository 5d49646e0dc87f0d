package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/glissues/internal/apperr"
	"github.com/danielolaszy/glissues/internal/filter"
	"github.com/danielolaszy/glissues/internal/gitlab"
	"github.com/danielolaszy/glissues/pkg/models"
)

type stubSource struct {
	issues []*gitlab.Issue
	err    error
	gotR   filter.Range
}

func (s *stubSource) ListIssues(_ context.Context, r filter.Range) ([]*gitlab.Issue, error) {
	s.gotR = r
	return s.issues, s.err
}

type recordingWriter struct {
	calls   int
	records []models.IssueRecord
}

func (w *recordingWriter) Write(_ string, records []models.IssueRecord) error {
	w.calls++
	w.records = records
	return nil
}

func TestExporterRun(t *testing.T) {
	first, second := sampleIssue(), sampleIssue()
	second.IID = 4
	source := &stubSource{issues: []*gitlab.Issue{first, second}}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	r, err := filter.NewRange("2024-01-01", "")
	require.NoError(t, err)

	result, err := NewExporter(source, NewWriter()).Run(context.Background(), r, path)
	require.NoError(t, err)

	assert.Equal(t, Result{Path: path, Count: 2}, result)
	assert.Equal(t, r, source.gotR)

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "12", rows[1][0])
	assert.Equal(t, "4", rows[2][0])
}

func TestExporterRunFetchFailureWritesNothing(t *testing.T) {
	source := &stubSource{err: apperr.New(apperr.KindAuthentication, "gitlab rejected the token")}
	writer := &recordingWriter{}

	_, err := NewExporter(source, writer).Run(context.Background(), filter.Range{}, "unused.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
	assert.Zero(t, writer.calls)
}

func TestExporterRunMalformedRecordWritesNothing(t *testing.T) {
	bad := sampleIssue()
	bad.Author = nil
	source := &stubSource{issues: []*gitlab.Issue{sampleIssue(), bad}}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := NewExporter(source, NewWriter()).Run(context.Background(), filter.Range{}, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMalformed)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExporterRunNoIssues(t *testing.T) {
	writer := &recordingWriter{}

	result, err := NewExporter(&stubSource{}, writer).Run(context.Background(), filter.Range{}, "empty.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 1, writer.calls)
	assert.Empty(t, writer.records)
}
