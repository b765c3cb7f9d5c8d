package scheduler

import (
	"context"
	"testing"

	"github.com/lightnsw21/fantasy-v4/pkg/logger"
)

type fakeJob struct {
	name string
	runs int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return "0 0 6 * * *" }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return nil
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())
	job := &fakeJob{name: "import"}

	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if err := s.AddJob(job); err == nil {
		t.Error("expected error for duplicate job name")
	}
}

func TestLatestResultsAfterRun(t *testing.T) {
	s := New(logger.NewNop())
	job := &fakeJob{name: "import"}

	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	results, err := s.LatestResults("import", 5)
	if err != nil {
		t.Fatalf("LatestResults failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results before any run, got %d", len(results))
	}

	s.runJob(job)

	results, err = s.LatestResults("import", 5)
	if err != nil {
		t.Fatalf("LatestResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result after run, got %d", len(results))
	}
	if !results[0].Success || results[0].JobName != "import" {
		t.Errorf("unexpected result: %+v", results[0])
	}
	if job.runs != 1 {
		t.Errorf("job ran %d times, want 1", job.runs)
	}
}

func TestLatestResultsUnknownJob(t *testing.T) {
	s := New(logger.NewNop())

	if _, err := s.LatestResults("missing", 5); err == nil {
		t.Error("expected error for unknown job")
	}
}
