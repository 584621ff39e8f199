package uperf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benchwrap/benchwrap/internal/core"
)

var (
	// The profile line carries "<test>-<proto>-<wsize>-<rsize>-<nthr>",
	// templated into the workload as the profile name.
	profileRe = regexp.MustCompile(`running profile:(.*) \.\.\.`)

	// One line per reporting interval: timestamp, cumulative bytes, cumulative ops.
	intervalRe = regexp.MustCompile(`timestamp_ms:(.*) name:Txn2 nr_bytes:(.*) nr_ops:(.*)`)
)

// rawStat is one cumulative datapoint read off stdout.
type rawStat struct {
	Timestamp float64
	Bytes     int64
	Ops       int64
}

// stdout is the parsed output of one uperf run.
type stdout struct {
	Results         []rawStat
	TestType        string
	Protocol        string
	MessageSize     int
	ReadMessageSize int
	Threads         int
	Duration        int
}

// interval is one processed datapoint with per-interval deltas.
type interval struct {
	TS       time.Time
	Bytes    int64
	NormByte int64
	Ops      int64
	NormOps  int64
	NormLtcy float64
}

// parseStdout extracts the profile description and interval stats from raw
// uperf output.
func parseStdout(out string) (*stdout, error) {
	profile := profileRe.FindStringSubmatch(out)
	if profile == nil {
		return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("no profile line in uperf output"))
	}

	parts := strings.Split(strings.TrimSpace(profile[1]), "-")
	if len(parts) != 5 {
		return nil, core.WrapError(core.ErrParseFailed,
			fmt.Errorf("profile name %q, want test-proto-wsize-rsize-nthr", profile[1]))
	}

	wsize, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("message size: %w", err))
	}
	rsize, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("read message size: %w", err))
	}
	nthr, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("thread count: %w", err))
	}

	var results []rawStat
	for _, m := range intervalRe.FindAllStringSubmatch(out, -1) {
		ts, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
		if err != nil {
			return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("timestamp: %w", err))
		}
		bytes, err := strconv.ParseInt(strings.TrimSpace(m[2]), 10, 64)
		if err != nil {
			return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("byte count: %w", err))
		}
		ops, err := strconv.ParseInt(strings.TrimSpace(m[3]), 10, 64)
		if err != nil {
			return nil, core.WrapError(core.ErrParseFailed, fmt.Errorf("op count: %w", err))
		}
		results = append(results, rawStat{Timestamp: ts, Bytes: bytes, Ops: ops})
	}

	return &stdout{
		Results:         results,
		TestType:        parts[0],
		Protocol:        parts[1],
		MessageSize:     wsize,
		ReadMessageSize: rsize,
		Threads:         nthr,
		Duration:        len(results),
	}, nil
}

// intervals converts cumulative stats into per-interval deltas. Latency is
// normalized per op across the interval; an idle interval reports zero.
func intervals(s *stdout) []interval {
	processed := make([]interval, 0, len(s.Results))

	var prevTS float64
	var prevBytes, prevOps int64

	for _, r := range s.Results {
		normOps := r.Ops - prevOps
		var normLtcy float64
		if normOps != 0 {
			normLtcy = (r.Timestamp - prevTS) / float64(normOps) * 1000
		}

		processed = append(processed, interval{
			TS:       time.UnixMilli(int64(r.Timestamp)),
			Bytes:    r.Bytes,
			NormByte: r.Bytes - prevBytes,
			Ops:      r.Ops,
			NormOps:  normOps,
			NormLtcy: normLtcy,
		})

		prevTS, prevBytes, prevOps = r.Timestamp, r.Bytes, r.Ops
	}

	return processed
}
