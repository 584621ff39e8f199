// Package process runs external commands and captures their outcome, with
// optional retries until the command exits with the expected return code.
package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Attempt is the outcome of one invocation of a command.
type Attempt struct {
	RC         int
	Stdout     string
	Stderr     string
	Duration   time.Duration
	HitTimeout bool
}

// Sample aggregates the attempts made while trying to get one successful run.
type Sample struct {
	ExpectedRC int
	Success    bool
	Attempts   int
	Failed     []Attempt
	Successful Attempt
}

// Options control how a command is sampled.
type Options struct {
	Retries    int           // additional tries after the first
	ExpectedRC int           // return code that counts as success
	Timeout    time.Duration // per-attempt; zero means no timeout
	Env        []string      // appended to the parent environment
	Dir        string
}

// Run executes one attempt of the command, killing it if the timeout elapses.
func run(ctx context.Context, cmd []string, opts Options) Attempt {
	attemptCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(attemptCtx, cmd[0], cmd[1:]...)
	if len(opts.Env) > 0 {
		c.Env = append(c.Environ(), opts.Env...)
	}
	c.Dir = opts.Dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	elapsed := time.Since(start)

	attempt := Attempt{
		Stdout:     strings.TrimSpace(stdout.String()),
		Stderr:     strings.TrimSpace(stderr.String()),
		Duration:   elapsed,
		HitTimeout: errors.Is(attemptCtx.Err(), context.DeadlineExceeded),
	}

	switch {
	case err == nil:
		attempt.RC = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			attempt.RC = exitErr.ExitCode()
		} else {
			// Command could not be started at all.
			attempt.RC = 127
		}
	}
	return attempt
}

// Collect runs the command until it exits with the expected return code or
// the retry budget is spent. Every attempt is logged; failed attempts are
// kept on the sample for inspection.
func Collect(ctx context.Context, log *zap.Logger, cmd []string, opts Options) Sample {
	log.Info("running command",
		zap.Strings("cmd", cmd),
		zap.Duration("timeout", opts.Timeout),
		zap.Int("retries", opts.Retries),
	)

	sample := Sample{ExpectedRC: opts.ExpectedRC}

	for sample.Attempts <= opts.Retries {
		sample.Attempts++
		log.Debug("starting attempt", zap.Int("attempt", sample.Attempts))

		attempt := run(ctx, cmd, opts)
		log.Debug("attempt finished",
			zap.Int("rc", attempt.RC),
			zap.Int("expected_rc", opts.ExpectedRC),
			zap.Duration("duration", attempt.Duration),
			zap.Bool("hit_timeout", attempt.HitTimeout),
		)

		if attempt.RC == opts.ExpectedRC {
			sample.Successful = attempt
			sample.Success = true
			return sample
		}

		log.Warn("command returned unexpected rc",
			zap.Int("rc", attempt.RC),
			zap.String("stderr", attempt.Stderr),
		)
		sample.Failed = append(sample.Failed, attempt)

		if ctx.Err() != nil {
			break
		}
	}

	log.Error("giving up on command",
		zap.Strings("cmd", cmd),
		zap.Int("attempts", sample.Attempts),
	)
	return sample
}
