// Package process runs external commands for the sync sequencer.
package process

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/gitsync/internal/core/domain"
	"github.com/custodia-labs/gitsync/internal/core/ports/driven"
)

// Ensure ExecRunner implements the interface.
var _ driven.ProcessRunner = (*ExecRunner)(nil)

// ExecRunner starts OS processes and waits for them without a timeout.
type ExecRunner struct {
	env []string
}

// NewExecRunner creates a runner. env entries are appended to the
// current environment of every process.
func NewExecRunner(env ...string) *ExecRunner {
	return &ExecRunner{env: env}
}

// Run executes name with args in dir and returns both captured streams.
// A non-zero exit status is not an error; the output tells the caller what
// happened. Failing to start the process returns a *domain.ProcessLaunchError.
func (r *ExecRunner) Run(dir, name string, args ...string) (domain.ProcessOutput, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return domain.ProcessOutput{}, &domain.ProcessLaunchError{Dir: dir, Name: name, Err: err}
	}
	if !info.IsDir() {
		return domain.ProcessOutput{}, &domain.ProcessLaunchError{
			Dir:  dir,
			Name: name,
			Err:  fmt.Errorf("%s is not a directory", dir),
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	err = cmd.Run()
	out := domain.ProcessOutput{
		Stdout: toText(stdout.Bytes()),
		Stderr: toText(stderr.Bytes()),
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return out, &domain.ProcessLaunchError{Dir: dir, Name: name, Err: err}
	}
	return out, nil
}

// toText decodes captured output as UTF-8, replacing invalid sequences.
func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
