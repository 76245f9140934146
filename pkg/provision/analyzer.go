package provision

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/segmentio/textio"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Analyzer abstracts the external analyzer binary. Analyze performs the actual
// dependency analysis scoped to a team, Test runs the platform's policy check
// against the latest analysis results. Both only communicate through their
// exit status; stdout/stderr is passed through to the user untouched.
type Analyzer interface {
	Analyze(ctx context.Context, team string) error
	Test(ctx context.Context) error
}

// CLIAnalyzer runs the fossa CLI.
type CLIAnalyzer struct {
	// Binary is the resolved path of the fossa executable
	Binary string

	// Out receives the prefixed subprocess output. Defaults to os.Stdout.
	Out io.Writer
}

// NewCLIAnalyzer resolves the fossa binary on the PATH. Failing to find it is
// a configuration error and surfaces before any network activity happens.
func NewCLIAnalyzer() (*CLIAnalyzer, error) {
	path, err := exec.LookPath("fossa")
	if err != nil {
		return nil, xerrors.Errorf("fossa CLI not found in PATH (see https://github.com/fossas/fossa-cli): %w", err)
	}
	return &CLIAnalyzer{Binary: path}, nil
}

// Analyze runs "fossa analyze --team <team>".
func (a *CLIAnalyzer) Analyze(ctx context.Context, team string) error {
	return a.run(ctx, "analyze", "--team", team)
}

// Test runs "fossa test".
func (a *CLIAnalyzer) Test(ctx context.Context) error {
	return a.run(ctx, "test")
}

func (a *CLIAnalyzer) run(ctx context.Context, args ...string) error {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	pout := textio.NewPrefixWriter(out, "[fossa] ")
	defer pout.Flush()

	log.WithField("args", args).Debug("running fossa CLI")

	cmd := exec.CommandContext(ctx, a.Binary, args...)
	cmd.Stdout = pout
	cmd.Stderr = pout
	cmd.Env = os.Environ()
	if err := cmd.Run(); err != nil {
		return xerrors.Errorf("fossa %s: %w", args[0], err)
	}
	return nil
}
