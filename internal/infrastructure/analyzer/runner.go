package analyzer

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"printlab/pkg/errors"
	"printlab/pkg/logger"
)

type RunSpec struct {
	Path    string
	Args    []string
	Env     map[string]string
	Dir     string
	Timeout time.Duration
}

type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external analyzer programs. Analyzers are untrusted in
// duration, so every run is bounded by the spec timeout and the child process
// is killed when it expires.
type Runner struct{}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Run(ctx context.Context, spec RunSpec) (*RunResult, error) {
	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir

	// Overrides are merged over the inherited environment
	cmdEnv := os.Environ()
	for key, value := range spec.Env {
		cmdEnv = append(cmdEnv, key+"="+value)
	}
	cmd.Env = cmdEnv

	// stdout carries the analyzer's JSON document, stderr its diagnostics;
	// they must not interleave
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Duration: duration,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Process timed out after %s: %s", duration, spec.Path)
		return result, errors.ProcessTimeout(fmt.Sprintf("process %s exceeded timeout of %s", spec.Path, spec.Timeout))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return result, errors.ProcessFailed(
				fmt.Sprintf("process %s failed", spec.Path),
				result.ExitCode,
				result.Stdout,
				result.Stderr,
			)
		}
		return result, errors.ExecutableNotFound(spec.Path, err)
	}

	logger.Debug("Process %s finished in %s", spec.Path, duration)
	return result, nil
}
