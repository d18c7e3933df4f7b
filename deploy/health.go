package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

// defaultUnhealthy is the health-code set treated as unhealthy when the
// configuration does not override it.
var defaultUnhealthy = []string{
	platform.HealthSevere,
	platform.HealthDegraded,
	platform.HealthWarning,
}

// Prober verifies that every environment in a group is healthy, retrying a
// bounded number of times with a fixed delay between attempts.
type Prober struct {
	client platform.Client
	log    logrus.FieldLogger
}

// NewProber creates a Prober using the given platform client.
func NewProber(client platform.Client, log logrus.FieldLogger) *Prober {
	return &Prober{client: client, log: log}
}

// ProbeInput configures one verification pass over a group.
type ProbeInput struct {
	Group  *models.Group
	Config models.HealthCheckConfig
	// CheckVersion additionally requires each environment to be running the
	// group's version label.
	CheckVersion bool
	// DryRun still performs the describe reads so missing environments are
	// caught, but skips health/version classification and the retry loop.
	DryRun bool
}

// Probe polls the group until every environment is healthy or the attempt
// budget is exhausted. A named environment absent from a describe response is
// a hard failure on the attempt that observes it: a missing environment can
// never become healthy.
func (p *Prober) Probe(ctx context.Context, input ProbeInput) error {
	attempts := input.Config.Attempts
	if input.DryRun {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		unhealthy, missing := p.probeOnce(ctx, input)

		if len(missing) > 0 {
			agg := NewAggregateError(fmt.Sprintf("health check failed for group %s", input.Group.Name))
			for _, he := range missing {
				agg.Append(he)
			}
			return agg
		}

		if len(unhealthy) == 0 {
			return nil
		}

		if attempt >= attempts {
			agg := NewAggregateError(fmt.Sprintf("health check failed for group %s after %d attempts", input.Group.Name, attempt))
			for _, he := range unhealthy {
				agg.Append(he)
			}
			return agg
		}

		p.log.WithFields(logrus.Fields{
			"group":     input.Group.Name,
			"attempt":   attempt,
			"unhealthy": len(unhealthy),
		}).Info("environments not healthy yet, retrying")

		if err := sleep(ctx, input.Config.Delay); err != nil {
			return err
		}
	}
}

// probeOnce runs one describe round over the group, batched per application.
// It returns the per-environment failures split into retriable (unhealthy)
// and fatal (missing) sets. A failed describe call marks the whole batch
// unhealthy for this attempt: the lookup may succeed on a retry, so it is
// never a hard failure, but on the final attempt it lands in the aggregate
// like any other unhealthy environment.
func (p *Prober) probeOnce(ctx context.Context, input ProbeInput) (unhealthy, missing []*HealthCheckError) {
	expected := input.Group.Version.Label
	byApp := input.Group.EnvironmentsByApp()

	for _, app := range input.Group.Applications() {
		names := byApp[app]

		statuses, err := p.client.DescribeEnvironments(ctx, app, names)
		if err != nil {
			p.log.WithFields(logrus.Fields{"app": app, "error": err.Error()}).
				Warn("environment status lookup failed")
			for _, name := range names {
				unhealthy = append(unhealthy, &HealthCheckError{
					App:         app,
					Environment: name,
					Reason:      fmt.Sprintf("status lookup failed: %v", err),
				})
			}
			continue
		}

		byName := make(map[string]models.EnvironmentStatus, len(statuses))
		for _, st := range statuses {
			byName[st.Name] = st
		}

		for _, name := range names {
			st, found := byName[name]
			if !found {
				missing = append(missing, &HealthCheckError{
					App:         app,
					Environment: name,
					Reason:      "environment does not exist",
				})
				continue
			}

			if input.DryRun {
				p.log.WithFields(logrus.Fields{"app": app, "env": name}).
					Debug("dry-run: environment exists, assuming healthy")
				continue
			}

			if reason := classify(st, expected, input.CheckVersion, input.Config.UnhealthyStatuses); reason != "" {
				unhealthy = append(unhealthy, &HealthCheckError{
					App:         app,
					Environment: name,
					Reason:      reason,
				})
			}
		}
	}

	return unhealthy, missing
}

// classify returns an empty string for a healthy environment, otherwise a
// human-readable reason.
func classify(st models.EnvironmentStatus, expectedLabel string, checkVersion bool, unhealthySet []string) string {
	if st.Status != platform.StatusReady {
		return fmt.Sprintf("status is %s, expected %s", st.Status, platform.StatusReady)
	}

	set := unhealthySet
	if len(set) == 0 {
		set = defaultUnhealthy
	}
	for _, code := range set {
		if st.Health == code {
			return fmt.Sprintf("health is %s", st.Health)
		}
	}

	if checkVersion && st.VersionLabel != expectedLabel {
		return fmt.Sprintf("running version %q, expected %q", st.VersionLabel, expectedLabel)
	}

	return ""
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
