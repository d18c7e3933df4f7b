package deploy

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

// triggerDeploy asks the platform to roll label onto one environment. Success
// means the request was accepted, not that the rollout completed; completion
// is verified by the post-deploy health gate.
func triggerDeploy(ctx context.Context, client platform.Client, log logrus.FieldLogger, env models.Environment, label string, dryRun bool) error {
	entry := log.WithFields(logrus.Fields{"app": env.App, "env": env.Name, "label": label})

	if dryRun {
		entry.Info("dry-run: would trigger deploy")
		return nil
	}

	ack, err := client.TriggerDeploy(ctx, env.App, env.Name, label)
	if err != nil {
		te := &TriggerError{App: env.App, Environment: env.Name, Label: label, Err: err}
		if ack != nil {
			te.StatusCode = ack.StatusCode
		}
		return te
	}
	if !ack.OK() {
		return &TriggerError{
			App:         env.App,
			Environment: env.Name,
			Label:       label,
			StatusCode:  ack.StatusCode,
			Err:         fmt.Errorf("deploy request rejected with status %d", ack.StatusCode),
		}
	}

	entry.Info("deploy triggered")
	return nil
}
