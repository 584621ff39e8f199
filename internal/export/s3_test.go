package export

import (
	"testing"

	"github.com/benchwrap/benchwrap/internal/core"
)

func TestS3_KeyNaming(t *testing.T) {
	exp, err := NewS3(S3Config{Bucket: "results", Region: "us-east-1", Prefix: "benchwrap/"})
	if err != nil {
		t.Fatal(err)
	}

	r := core.Result{
		Benchmark: "uperf",
		Run:       core.RunInfo{UUID: "run-1"},
		Label:     "results",
	}

	if got := exp.key(r); got != "benchwrap/run-1/uperf/results/doc-0.json" {
		t.Errorf("unexpected key %q", got)
	}
	if got := exp.key(r); got != "benchwrap/run-1/uperf/results/doc-1.json" {
		t.Errorf("expected sequence to advance, got %q", got)
	}
}

func TestS3_KeyWithoutPrefix(t *testing.T) {
	exp, err := NewS3(S3Config{Bucket: "results", Region: "us-east-1"})
	if err != nil {
		t.Fatal(err)
	}

	r := core.Result{
		Benchmark: "uperf",
		Run:       core.RunInfo{UUID: "run-1"},
		Label:     "results",
	}

	if got := exp.key(r); got != "run-1/uperf/results/doc-0.json" {
		t.Errorf("unexpected key %q", got)
	}
}
