// Package deploy implements the group deployment state machine: version
// provisioning, pre-deploy health gate, concurrent deploy triggers, and
// post-deploy health verification, with partial-failure aggregation.
package deploy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

// Deployer runs the deployment state machine for one group. Stages run in
// order; provisioning and the pre-deploy gate are fatal on failure, trigger
// failures are recorded and the run continues so the final report covers
// every environment.
type Deployer struct {
	client platform.Client
	log    logrus.FieldLogger
}

// New creates a Deployer using the given platform client and logger.
func New(client platform.Client, log logrus.FieldLogger) *Deployer {
	return &Deployer{client: client, log: log}
}

// Deploy rolls the group's version out to every environment in the group.
// With opts.Force false the run is a dry-run: reads execute with the same
// arguments as a real run, writes are logged as simulated.
//
// On failure the returned error is an *AggregateError whose sub-errors
// preserve the per-stage structure, so callers can distinguish environments
// that never got the deploy command from environments that got it but did
// not become healthy.
func (d *Deployer) Deploy(ctx context.Context, group *models.Group, opts *models.RunOptions) error {
	if err := models.ValidateGroup(group); err != nil {
		return err
	}
	if err := models.ValidateRunOptions(opts); err != nil {
		return err
	}

	log := d.log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"group":  group.Name,
		"label":  group.Version.Label,
	})
	dryRun := !opts.Force
	if dryRun {
		log.Info("starting dry-run deployment (no changes will be made)")
	} else {
		log.Info("starting deployment")
	}

	// Stage 1: one version registration per distinct application. Fatal on
	// failure: an unregistered or conflicting version makes every later
	// stage meaningless.
	log.Info("provisioning application versions")
	if err := NewProvisioner(d.client, log).EnsureVersions(ctx, group, dryRun); err != nil {
		return err
	}

	// Stage 2: pre-deploy health gate. Deploying onto unhealthy or
	// unreachable environments is unsafe, so this is fatal too.
	log.Info("verifying pre-deploy health")
	prober := NewProber(d.client, log)
	if err := prober.Probe(ctx, ProbeInput{
		Group:  group,
		Config: opts.PreDeployHealthCheck,
		DryRun: dryRun,
	}); err != nil {
		return err
	}

	// Stage 3: trigger fan-out across all environments. Join-all: every
	// trigger runs to completion and failures are recorded, not fatal.
	log.Info("triggering deploys")
	triggerAgg := d.triggerAll(ctx, group, log, dryRun)
	for _, err := range triggerAgg.Errs {
		log.WithField("error", err.Error()).Warn("deploy trigger failed")
	}

	// Stage 4: post-deploy health gate over the full group, verifying the
	// expected version is live. Runs even when some triggers failed so the
	// report covers every environment the operator asked about.
	log.Info("verifying post-deploy health")
	var healthErr error
	if err := prober.Probe(ctx, ProbeInput{
		Group:        group,
		Config:       opts.PostDeployHealthCheck,
		CheckVersion: true,
		DryRun:       dryRun,
	}); err != nil {
		healthErr = err
	}

	if triggerAgg.Len() == 0 && healthErr == nil {
		log.Info("deployment complete")
		return nil
	}

	run := NewAggregateError(fmt.Sprintf("deployment of %s to group %s failed", group.Version.Label, group.Name))
	if triggerAgg.Len() > 0 {
		run.Append(triggerAgg)
	}
	run.Append(healthErr)
	return run
}

// triggerAll fans the deploy command out to every environment concurrently
// and collects per-environment failures after all have settled.
func (d *Deployer) triggerAll(ctx context.Context, group *models.Group, log logrus.FieldLogger, dryRun bool) *AggregateError {
	label := group.Version.Label

	errSlots := make([]error, len(group.Environments))
	var wg sync.WaitGroup
	for i, env := range group.Environments {
		wg.Add(1)
		go func(i int, env models.Environment) {
			defer wg.Done()
			errSlots[i] = triggerDeploy(ctx, d.client, log, env, label, dryRun)
		}(i, env)
	}
	wg.Wait()

	agg := NewAggregateError(fmt.Sprintf("deploy triggers failed for group %s", group.Name))
	for _, err := range errSlots {
		agg.Append(err)
	}
	return agg
}
