package insights

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

var _ model.InsightsRunner = (*ScriptRunner)(nil)

// ScriptRunner runs the analysis script as a child process. The script reads
// the task store directly; it gets the DSN through its environment.
type ScriptRunner struct {
	command string
	script  string
	timeout time.Duration
	dsn     string
	logger  *logger.Logger
}

func NewScriptRunner(command, script string, timeout time.Duration, dsn string, logger *logger.Logger) *ScriptRunner {
	return &ScriptRunner{
		command: command,
		script:  script,
		timeout: timeout,
		dsn:     dsn,
		logger:  logger,
	}
}

// Run executes the script and returns its standard output.
func (r *ScriptRunner) Run(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, r.script)
	cmd.Env = append(os.Environ(), "DATABASE_DSN="+r.dsn)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Insights runner: starting analysis script",
		"command", r.command,
		"script", r.script)

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("analysis script failed: %w: %s", err, stderr.String())
		}
		return "", fmt.Errorf("analysis script failed: %w", err)
	}

	if stderr.Len() > 0 {
		r.logger.Debug("Insights runner: analysis script wrote to stderr",
			"stderr", stderr.String())
	}

	return stdout.String(), nil
}
