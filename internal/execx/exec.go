// Package execx runs external analysis tools as bounded subprocesses.
package execx

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"
)

// Exit codes reported for failures that happen outside the tool itself.
const (
	ExitTimeout  = 124
	ExitNotFound = 127
)

// Result holds everything captured from a finished subprocess.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	ExitCode int
}

// TimedOut reports whether the subprocess was killed by its deadline.
func (r Result) TimedOut() bool { return r.ExitCode == ExitTimeout }

// NotFound reports whether the executable could not be located.
func (r Result) NotFound() bool { return r.ExitCode == ExitNotFound }

// seam for tests
var runCommand = func(cmd *exec.Cmd) error { return cmd.Run() }

// Run executes name with args under ctx, capturing output and duration.
// A non-zero exit from a tool that ran to completion is not an error here;
// the scanners decide what an exit code means. The returned error is non-nil
// only when the tool could not be run at all (missing binary, deadline,
// start failure), with the cause also encoded in ExitCode.
func Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := runCommand(cmd)
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		res.ExitCode = ExitTimeout
	// a configured path that does not exist surfaces as fs.ErrNotExist,
	// not exec.ErrNotFound
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		res.ExitCode = ExitNotFound
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		res.ExitCode = 1
	}
	return res, err
}
