package deploy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

// Provisioner ensures one application version registration exists per
// distinct application in a group before any deploy is triggered.
type Provisioner struct {
	client platform.Client
	log    logrus.FieldLogger
}

// NewProvisioner creates a Provisioner using the given platform client.
func NewProvisioner(client platform.Client, log logrus.FieldLogger) *Provisioner {
	return &Provisioner{client: client, log: log}
}

// EnsureVersions registers the group's version with every distinct
// application among its environments. All applications are attempted
// concurrently; one application's failure does not stop the others. The
// existence check always runs, even in dry-run; only the create call is
// simulated when dryRun is true.
func (p *Provisioner) EnsureVersions(ctx context.Context, group *models.Group, dryRun bool) error {
	apps := group.Applications()

	errSlots := make([]error, len(apps))
	var wg sync.WaitGroup
	for i, app := range apps {
		wg.Add(1)
		go func(i int, app string) {
			defer wg.Done()
			errSlots[i] = p.ensureVersion(ctx, app, &group.Version, dryRun)
		}(i, app)
	}
	wg.Wait()

	agg := NewAggregateError(fmt.Sprintf("version provisioning failed for group %s", group.Name))
	for _, err := range errSlots {
		agg.Append(err)
	}
	if agg.Len() > 0 {
		return agg
	}
	return nil
}

func (p *Provisioner) ensureVersion(ctx context.Context, app string, spec *models.VersionSpec, dryRun bool) error {
	log := p.log.WithFields(logrus.Fields{"app": app, "label": spec.Label})

	existing, err := p.client.DescribeVersions(ctx, app, []string{spec.Label})
	if err != nil {
		return &ProvisionError{App: app, Label: spec.Label, Err: err}
	}

	if len(existing) > 0 {
		if spec.ErrorIfExists {
			return &ProvisionError{
				App:   app,
				Label: spec.Label,
				Err:   errors.New("version already exists and error_if_exists is set"),
			}
		}
		log.Info("version already registered, skipping create")
		return nil
	}

	if dryRun {
		log.Info("dry-run: would create application version")
		return nil
	}

	ack, err := p.client.CreateVersion(ctx, platform.CreateVersionInput{
		App:         app,
		Label:       spec.Label,
		Description: spec.Description,
		Artifact:    spec.Artifact,
	})
	if err != nil {
		return &ProvisionError{App: app, Label: spec.Label, Err: err}
	}
	if !ack.OK() {
		return &ProvisionError{
			App:   app,
			Label: spec.Label,
			Err:   fmt.Errorf("create version rejected with status %d", ack.StatusCode),
		}
	}

	log.Info("application version created")
	return nil
}
