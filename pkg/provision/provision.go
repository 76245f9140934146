// Package provision implements the idempotent team provisioning workflow:
// check whether a team exists, create it if it does not, then hand over to
// the platform's own analyzer scoped to that team.
package provision

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/gitpod-io/fossactl/pkg/fossa"
	"github.com/gitpod-io/fossactl/pkg/telemetry"
)

// API is the slice of the platform API the provisioner depends on.
// *fossa.Client satisfies it.
type API interface {
	TeamExists(ctx context.Context, name string) (bool, error)
	CreateTeam(ctx context.Context, name string) (fossa.Team, error)
}

// Provisioner converges a named team towards existence and runs the analyzer.
type Provisioner struct {
	API      API
	Analyzer Analyzer
}

// New creates a provisioner using the given API client and analyzer.
func New(api API, analyzer Analyzer) *Provisioner {
	return &Provisioner{API: api, Analyzer: analyzer}
}

// Provision makes sure a team with the given name exists. If it does, nothing
// happens; if it does not, it is created with autoAddUsers disabled.
//
// Provision is idempotent in the sense that repeated invocations converge to
// "team exists". It is not safe against concurrent provisioning of the same
// name: two runs may both observe the team as missing and both issue a create.
// The platform API offers no idempotency key to close that race.
func (p *Provisioner) Provision(ctx context.Context, name string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "provision")
	defer telemetry.FinishSpan(span, &err)

	if name == "" {
		return xerrors.Errorf("team name must not be empty")
	}

	exists, err := p.API.TeamExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		log.WithField("team", name).Info("team already exists")
		return nil
	}

	team, err := p.API.CreateTeam(ctx, name)
	if err != nil {
		return err
	}

	log.WithField("team", name).WithField("id", team.ID).Info("created team")
	return nil
}

// RunAnalysis runs the analyzer scoped to the given team. A failure of the
// analysis itself is an error. A failure of the subsequent policy check is
// only reported as a warning: whether the results satisfy content policy is
// left to a human to triage, and must not fail the CI job.
func (p *Provisioner) RunAnalysis(ctx context.Context, name string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "analyze")
	defer telemetry.FinishSpan(span, &err)

	if err := p.Analyzer.Analyze(ctx, name); err != nil {
		return xerrors.Errorf("analysis failed: %w", err)
	}
	log.WithField("team", name).Info("analysis complete")

	if err := p.Analyzer.Test(ctx); err != nil {
		log.WithError(err).Warn("policy check failed, please triage the reported issues")
	}

	return nil
}
