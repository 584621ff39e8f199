// Package uperf wraps the uperf network benchmark. See http://uperf.org/.
package uperf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benchwrap/benchwrap/internal/benchmark"
	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/process"
	"go.uber.org/zap"
)

const toolName = "uperf"

// Workload profiles template their parameters from the environment, so each
// config param is handed to the subprocess under the variable name the
// profiles expect.
var paramEnv = map[string]string{
	"workload":      "WORKLOAD",
	"kind":          "RESOURCETYPE",
	"client_ips":    "ips",
	"remote_ip":     "h",
	"hostnetwork":   "hostnet",
	"service_ip":    "serviceip",
	"server_node":   "server_node",
	"client_node":   "client_node",
	"num_pairs":     "num_pairs",
	"multus_client": "multus_client",
	"networkpolicy": "networkpolicy",
	"nodes_in_iter": "node_count",
	"density":       "pod_count",
	"colocate":      "colocate",
	"step_size":     "stepsize",
	"density_range": "density_range",
	"node_range":    "node_range",
	"pod_id":        "my_pod_idx",
	"cluster_name":  "clustername",
}

func init() {
	benchmark.MustRegister(toolName, New)
}

// Uperf implements the Benchmark interface for the uperf tool
type Uperf struct {
	cfg      benchmark.Config
	log      *zap.Logger
	workload string
}

// New creates an uperf benchmark instance
func New(cfg benchmark.Config, log *zap.Logger) (benchmark.Benchmark, error) {
	workload, ok := cfg.StringParam("workload")
	if !ok || workload == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("uperf: workload param required"))
	}
	return &Uperf{cfg: cfg, log: log, workload: workload}, nil
}

func (u *Uperf) Name() string { return toolName }

// Setup checks that the workload profile exists and is readable.
func (u *Uperf) Setup(ctx context.Context) error {
	f, err := os.Open(u.workload)
	if err != nil {
		return fmt.Errorf("workload file %s: %w", u.workload, err)
	}
	return f.Close()
}

// Collect runs one uperf sample and parses its stdout into one result
// document per reporting interval.
func (u *Uperf) Collect(ctx context.Context, sample int) ([]core.Result, error) {
	cmd := []string{"uperf", "-v", "-a", "-R", "-i", "1", "-m", u.workload}

	retries := u.cfg.Retries
	if retries == 0 {
		retries = 2
	}

	ps := process.Collect(ctx, u.log, cmd, process.Options{
		Retries: retries,
		Timeout: u.cfg.Timeout,
		Env:     u.env(),
	})
	if !ps.Success {
		return nil, core.WrapError(core.ErrProcessFailed,
			fmt.Errorf("uperf sample %d failed after %d attempts", sample, ps.Attempts))
	}
	if ps.Successful.Stdout == "" {
		return nil, core.WrapError(core.ErrProcessFailed,
			fmt.Errorf("uperf sample %d succeeded but produced no stdout", sample))
	}

	parsed, err := parseStdout(ps.Successful.Stdout)
	if err != nil {
		return nil, err
	}

	u.log.Debug("parsed uperf stdout",
		zap.String("test_type", parsed.TestType),
		zap.String("protocol", parsed.Protocol),
		zap.Int("intervals", parsed.Duration),
	)

	cfgDoc := u.configDoc(parsed)
	results := make([]core.Result, 0, parsed.Duration)
	for _, iv := range intervals(parsed) {
		results = append(results, core.Result{
			Benchmark: toolName,
			Run:       u.cfg.Run,
			Label:     "results",
			Config:    cfgDoc,
			Data: map[string]any{
				"uperf_ts":  iv.TS,
				"bytes":     iv.Bytes,
				"norm_byte": iv.NormByte,
				"ops":       iv.Ops,
				"norm_ops":  iv.NormOps,
				"norm_ltcy": iv.NormLtcy,
				"iteration": sample,
			},
			Timestamp: time.Now(),
		})
	}
	return results, nil
}

func (u *Uperf) Cleanup() error { return nil }

// configDoc merges the parsed profile description with the run params.
func (u *Uperf) configDoc(s *stdout) map[string]any {
	doc := make(map[string]any, len(u.cfg.Params)+6)
	for k, v := range u.cfg.Params {
		doc[k] = v
	}
	doc["test_type"] = s.TestType
	doc["protocol"] = s.Protocol
	doc["message_size"] = s.MessageSize
	doc["read_message_size"] = s.ReadMessageSize
	doc["num_threads"] = s.Threads
	doc["duration"] = s.Duration
	return doc
}

func (u *Uperf) env() []string {
	env := make([]string, 0, len(u.cfg.Params)+2)
	for param, envVar := range paramEnv {
		if v, ok := u.cfg.StringParam(param); ok && v != "" {
			env = append(env, fmt.Sprintf("%s=%s", envVar, v))
		}
	}
	env = append(env,
		fmt.Sprintf("UUID=%s", u.cfg.Run.UUID),
		fmt.Sprintf("USER=%s", u.cfg.Run.User),
	)
	return env
}
