package uperf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benchwrap/benchwrap/internal/benchmark"
	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleStdout = `Starting 8 threads running profile:stream-tcp-16384-16384-8 ...
timestamp_ms:1559581000962.0330 name:Txn2 nr_bytes:0 nr_ops:0
timestamp_ms:1559581001962.8459 name:Txn2 nr_bytes:4697358336 nr_ops:286704
timestamp_ms:1559581002963.1040 name:Txn2 nr_bytes:9403504640 nr_ops:573944
`

func TestParseStdout(t *testing.T) {
	parsed, err := parseStdout(sampleStdout)
	require.NoError(t, err)

	assert.Equal(t, "stream", parsed.TestType)
	assert.Equal(t, "tcp", parsed.Protocol)
	assert.Equal(t, 16384, parsed.MessageSize)
	assert.Equal(t, 16384, parsed.ReadMessageSize)
	assert.Equal(t, 8, parsed.Threads)
	assert.Equal(t, 3, parsed.Duration)

	require.Len(t, parsed.Results, 3)
	assert.Equal(t, int64(4697358336), parsed.Results[1].Bytes)
	assert.Equal(t, int64(286704), parsed.Results[1].Ops)
}

func TestParseStdout_NoProfile(t *testing.T) {
	_, err := parseStdout("some unrelated output\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrParseFailed)
}

func TestParseStdout_MalformedProfile(t *testing.T) {
	_, err := parseStdout("running profile:only-two ...\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrParseFailed)
}

func TestIntervals(t *testing.T) {
	parsed, err := parseStdout(sampleStdout)
	require.NoError(t, err)

	ivs := intervals(parsed)
	require.Len(t, ivs, 3)

	// First interval has no predecessor, so deltas equal the raw values.
	assert.Equal(t, int64(0), ivs[0].NormByte)
	assert.Equal(t, int64(0), ivs[0].NormOps)
	assert.Equal(t, float64(0), ivs[0].NormLtcy)

	second := ivs[1]
	assert.Equal(t, int64(4697358336), second.NormByte)
	assert.Equal(t, int64(286704), second.NormOps)
	wantLtcy := (parsed.Results[1].Timestamp - parsed.Results[0].Timestamp) / float64(286704) * 1000
	assert.InDelta(t, wantLtcy, second.NormLtcy, 1e-9)

	third := ivs[2]
	assert.Equal(t, int64(9403504640-4697358336), third.NormByte)
	assert.Equal(t, int64(573944-286704), third.NormOps)
}

func TestNew_RequiresWorkload(t *testing.T) {
	_, err := New(benchmark.Config{Params: map[string]any{}}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigMissing)
}

func TestSetup_MissingWorkloadFile(t *testing.T) {
	b, err := New(benchmark.Config{
		Params: map[string]any{"workload": "/nonexistent/workload.xml"},
	}, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, b.Setup(context.Background()))
}

func TestSetup_ReadableWorkload(t *testing.T) {
	dir := t.TempDir()
	workload := filepath.Join(dir, "workload.xml")
	require.NoError(t, os.WriteFile(workload, []byte("<profile/>"), 0644))

	b, err := New(benchmark.Config{
		Params: map[string]any{"workload": workload},
	}, zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, b.Setup(context.Background()))
}

func TestRegistered(t *testing.T) {
	factory, ok := benchmark.Lookup("uperf")
	require.True(t, ok, "expected uperf to self-register at load time")

	b, err := factory(benchmark.Config{
		Params: map[string]any{"workload": "w.xml"},
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "uperf", b.Name())
}

func TestEnv(t *testing.T) {
	b, err := New(benchmark.Config{
		Run: core.RunInfo{UUID: "run-1", User: "perf"},
		Params: map[string]any{
			"workload":  "w.xml",
			"remote_ip": "10.0.0.1",
		},
	}, zap.NewNop())
	require.NoError(t, err)

	env := b.(*Uperf).env()
	assert.Contains(t, env, "WORKLOAD=w.xml")
	assert.Contains(t, env, "h=10.0.0.1")
	assert.Contains(t, env, "UUID=run-1")
	assert.Contains(t, env, "USER=perf")
}
