// Package pbench drives the pbench-agent tool suite as a side-channel
// collector around benchmark samples.
package pbench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benchwrap/benchwrap/internal/collector"
	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/benchwrap/benchwrap/internal/process"
	"go.uber.org/zap"
)

const collectorName = "pbench"

const defaultRunBase = "/var/lib/pbench-agent"

func init() {
	collector.MustRegister(collectorName, New)
}

// Pbench implements the Collector interface on top of the pbench-agent CLI
type Pbench struct {
	log *zap.Logger

	toolMapping string // path to host -> tools JSON
	createLocal bool
	redis       string
	tds         string
	runBase     string

	runDir        string
	iterDir       string
	sampleDir     string
	registered    bool
	runningSample bool
}

// New creates a pbench collector instance
func New(cfg collector.Config, log *zap.Logger) (collector.Collector, error) {
	mapping, ok := cfg.StringParam("host_tool_mapping")
	if !ok || mapping == "" {
		return nil, core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("pbench: host_tool_mapping param required"))
	}
	if _, err := os.Stat(mapping); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("pbench: tool mapping file: %w", err))
	}

	p := &Pbench{
		log:         log,
		toolMapping: mapping,
		runBase:     defaultRunBase,
	}

	if v, ok := cfg.Params["create_local"].(bool); ok {
		p.createLocal = v
	}
	if v, ok := cfg.StringParam("redis"); ok {
		p.redis = v
	}
	if v, ok := cfg.StringParam("tool_data_sink"); ok {
		p.tds = v
	}
	if v, ok := cfg.StringParam("run_base"); ok && v != "" {
		p.runBase = v
	}

	return p, nil
}

func (p *Pbench) Name() string { return collectorName }

// Startup registers the configured tools on every host and starts the tool
// meister. The run directory must not already exist.
func (p *Pbench) Startup(ctx context.Context) error {
	if !p.createLocal && (p.redis == "" || p.tds == "") {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("pbench: redis and tool_data_sink required unless create_local is set"))
	}

	hostTools, err := p.loadMapping()
	if err != nil {
		return err
	}
	if err := p.checkLocal(hostTools); err != nil {
		return err
	}

	if err := p.registerTools(ctx, hostTools); err != nil {
		return err
	}

	p.runDir = filepath.Join(p.runBase,
		fmt.Sprintf("pbench_wrapper-run_%s", time.Now().Format("01-02-2006_15-04-05")))
	if err := os.Mkdir(p.runDir, 0755); err != nil {
		return p.fatal(ctx, fmt.Errorf("creating run dir: %w", err))
	}

	if err := p.startMeister(ctx); err != nil {
		return err
	}

	p.iterDir = filepath.Join(p.runDir, "collected-samples")
	if err := os.Mkdir(p.iterDir, 0755); err != nil {
		return p.fatal(ctx, fmt.Errorf("creating iteration dir: %w", err))
	}
	return nil
}

// StartSample creates the sample archive directory and starts the tools.
func (p *Pbench) StartSample(ctx context.Context, sample int) (string, error) {
	if p.iterDir == "" {
		return "", fmt.Errorf("pbench: Startup has not run, cannot start sample")
	}
	if p.runningSample {
		return "", fmt.Errorf("pbench: a sample is still running, stop it first")
	}

	p.sampleDir = filepath.Join(p.iterDir, fmt.Sprintf("sample-%d", sample))
	if err := os.Mkdir(p.sampleDir, 0755); err != nil {
		return "", p.fatal(ctx, fmt.Errorf("creating sample dir: %w", err))
	}

	p.log.Info("beginning pbench sample", zap.Int("sample", sample))
	if err := p.run(ctx, []string{"pbench-start-tools", "--group=default", "--dir=" + p.sampleDir}, nil); err != nil {
		return "", err
	}

	p.runningSample = true
	return p.sampleDir, nil
}

// StopSample stops the tools and sends the collected data.
func (p *Pbench) StopSample(ctx context.Context) error {
	if !p.runningSample {
		return fmt.Errorf("pbench: no running sample to stop")
	}

	for _, verb := range []string{"stop", "send"} {
		args := []string{fmt.Sprintf("pbench-%s-tools", verb), "--group=default", "--dir=" + p.sampleDir}
		if err := p.run(ctx, args, nil); err != nil {
			return err
		}
	}

	p.runningSample = false
	return nil
}

// Shutdown stops the tool meister and clears registered tools.
func (p *Pbench) Shutdown(ctx context.Context) error {
	err := p.run(ctx, []string{"pbench-tool-meister-stop", "--sysinfo=default", "default"}, p.meisterEnv())
	p.clearTools(ctx)
	return err
}

func (p *Pbench) loadMapping() (map[string][]string, error) {
	data, err := os.ReadFile(p.toolMapping)
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}

	var hostTools map[string][]string
	if err := json.Unmarshal(data, &hostTools); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("parsing tool mapping %s: %w", p.toolMapping, err))
	}
	return hostTools, nil
}

// checkLocal rejects remote hosts when orchestration is created locally.
func (p *Pbench) checkLocal(hostTools map[string][]string) error {
	if !p.createLocal {
		return nil
	}

	node, _ := os.Hostname()
	for host := range hostTools {
		if host != "localhost" && host != node {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("create_local is set but remote host %q is mapped", host))
		}
	}
	return nil
}

func (p *Pbench) registerTools(ctx context.Context, hostTools map[string][]string) error {
	node, _ := os.Hostname()
	for host, tools := range hostTools {
		for _, tool := range tools {
			args := registerArgs(host, tool, node)
			if err := p.run(ctx, args, nil); err != nil {
				return err
			}
		}
	}
	p.registered = true
	return nil
}

// registerArgs builds the pbench-register-tool invocation for one tool on
// one host, adding --remote for hosts other than this node.
func registerArgs(host, tool, node string) []string {
	args := []string{"pbench-register-tool", "--name=" + tool}
	if host != "localhost" && host != node {
		args = append(args, "--remote="+host)
	}
	return args
}

func (p *Pbench) startMeister(ctx context.Context) error {
	args := []string{"pbench-tool-meister-start"}
	if p.createLocal {
		args = append(args, "--orchestrate=create")
	} else {
		args = append(args,
			"--orchestrate=existing",
			"--redis-server="+p.redis,
			"--tool-data-sink="+p.tds,
		)
	}
	args = append(args, "default")
	return p.run(ctx, args, p.meisterEnv())
}

// meisterEnv carries the run-dir bookkeeping the pbench scripts expect.
func (p *Pbench) meisterEnv() []string {
	node, _ := os.Hostname()
	return []string{
		"script=pbench",
		"config=wrapper-run",
		"pbench_run=" + p.runBase,
		"pbench_log=" + filepath.Join(p.runBase, "pbench.log"),
		"pbench_tmp=" + filepath.Join(p.runBase, "tmp"),
		"_pbench_hostname=" + node,
		"_pbench_full_hostname=" + node,
		"pbench_install_dir=/opt/pbench-agent",
		"benchmark_run_dir=" + p.runDir,
	}
}

func (p *Pbench) run(ctx context.Context, args []string, env []string) error {
	sample := process.Collect(ctx, p.log, args, process.Options{Env: env})
	if !sample.Success {
		return p.fatal(ctx, core.WrapError(core.ErrProcessFailed,
			fmt.Errorf("%s failed after %d attempts", args[0], sample.Attempts)))
	}
	if sample.Successful.Stdout != "" {
		p.log.Info(sample.Successful.Stdout)
	}
	return nil
}

// fatal clears any registered tools before surfacing the error, so a failed
// run does not leave tools attached to the hosts.
func (p *Pbench) fatal(ctx context.Context, err error) error {
	p.clearTools(ctx)
	return err
}

func (p *Pbench) clearTools(ctx context.Context) {
	if !p.registered {
		return
	}
	sample := process.Collect(ctx, p.log, []string{"pbench-clear-tools"}, process.Options{})
	if !sample.Success {
		p.log.Error("failed to clear pbench tools", zap.Int("attempts", sample.Attempts))
		return
	}
	p.registered = false
}
