package core

import "time"

// Labels are user-supplied metadata attached to every exported document,
// parsed from "key1=value1,key2=value2" on the command line.
type Labels map[string]string

// RunInfo identifies one invocation of the wrapper.
type RunInfo struct {
	UUID   string
	User   string
	Labels Labels
}

// Result is one structured datapoint produced by a benchmark run.
// Config holds the parameters the tool ran with, Data the measured values.
type Result struct {
	Benchmark string
	Run       RunInfo
	Label     string // document kind, e.g. "results"
	Config    map[string]any
	Data      map[string]any
	Timestamp time.Time
}

// IsValid checks that the result carries the fields export requires.
func (r Result) IsValid() bool {
	return r.Benchmark != "" && r.Label != ""
}

// ToDocument flattens the result into a single exportable document.
// Config and data keys are merged, with data winning on collision.
func (r Result) ToDocument() map[string]any {
	doc := make(map[string]any, len(r.Config)+len(r.Data)+4)
	for k, v := range r.Config {
		doc[k] = v
	}
	for k, v := range r.Data {
		doc[k] = v
	}
	doc["benchmark"] = r.Benchmark
	doc["uuid"] = r.Run.UUID
	doc["user"] = r.Run.User
	doc["metadata"] = r.Run.Labels
	if !r.Timestamp.IsZero() {
		doc["timestamp"] = r.Timestamp.Format(time.RFC3339Nano)
	}
	return doc
}
