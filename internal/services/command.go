package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external tool to completion. Implementations
// return a non-nil error when the tool is missing or exits non-zero.
type CommandRunner func(ctx context.Context, name string, args ...string) error

var commandContext = exec.CommandContext

// RunCommand is the default CommandRunner. Combined output is discarded on
// success and folded into the error on failure.
func RunCommand(ctx context.Context, name string, args ...string) error {
	cmd := commandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if detail := strings.TrimSpace(string(output)); detail != "" {
		return fmt.Errorf("%s: %w: %s", name, err, detail)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// RunnerOrDefault returns runner, or RunCommand when runner is nil.
func RunnerOrDefault(runner CommandRunner) CommandRunner {
	if runner == nil {
		return RunCommand
	}
	return runner
}
