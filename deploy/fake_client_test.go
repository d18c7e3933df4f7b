package deploy

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

// fakeClient is a scriptable platform.Client that records every call. The
// default behavior is a fully healthy, never-before-deployed group: no
// existing versions, creates and triggers acknowledged with 200, every
// described environment Ready/Ok and running the expected label.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	// expectedLabel is what described environments report as live.
	expectedLabel string

	describeVersionsFn func(app string, labels []string) ([]platform.Version, error)
	createVersionFn    func(in platform.CreateVersionInput) (*platform.OperationAck, error)
	describeEnvsFn     func(app string, names []string) ([]models.EnvironmentStatus, error)
	triggerDeployFn    func(app, env, label string) (*platform.OperationAck, error)
}

func newFakeClient(expectedLabel string) *fakeClient {
	return &fakeClient{expectedLabel: expectedLabel}
}

func (f *fakeClient) record(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// count returns how many recorded calls start with prefix.
func (f *fakeClient) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeClient) DescribeVersions(ctx context.Context, app string, labels []string) ([]platform.Version, error) {
	f.record("DescribeVersions %s %v", app, labels)
	if f.describeVersionsFn != nil {
		return f.describeVersionsFn(app, labels)
	}
	return nil, nil
}

func (f *fakeClient) CreateVersion(ctx context.Context, in platform.CreateVersionInput) (*platform.OperationAck, error) {
	f.record("CreateVersion %s %s", in.App, in.Label)
	if f.createVersionFn != nil {
		return f.createVersionFn(in)
	}
	return &platform.OperationAck{StatusCode: 200}, nil
}

func (f *fakeClient) DescribeEnvironments(ctx context.Context, app string, names []string) ([]models.EnvironmentStatus, error) {
	f.record("DescribeEnvironments %s %v", app, names)
	if f.describeEnvsFn != nil {
		return f.describeEnvsFn(app, names)
	}
	statuses := make([]models.EnvironmentStatus, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, models.EnvironmentStatus{
			App:          app,
			Name:         name,
			Status:       platform.StatusReady,
			Health:       platform.HealthOk,
			VersionLabel: f.expectedLabel,
		})
	}
	return statuses, nil
}

func (f *fakeClient) TriggerDeploy(ctx context.Context, app, env, label string) (*platform.OperationAck, error) {
	f.record("TriggerDeploy %s %s %s", app, env, label)
	if f.triggerDeployFn != nil {
		return f.triggerDeployFn(app, env, label)
	}
	return &platform.OperationAck{StatusCode: 200}, nil
}

// testLogger returns a logger that discards output so control flow is never
// affected by the log side-channel.
func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testGroup() *models.Group {
	return &models.Group{
		Name:   "checkout-group",
		Region: "eu-west-1",
		Environments: []models.Environment{
			{App: "checkout", Name: "checkout-blue"},
			{App: "checkout", Name: "checkout-green"},
			{App: "payments", Name: "payments-live"},
		},
		Version: models.VersionSpec{
			Artifact: models.ArtifactLocation{Bucket: "releases", Key: "checkout/v1.2.3.zip"},
			Label:    "v1.2.3",
		},
	}
}

func testOptions(force bool) *models.RunOptions {
	return &models.RunOptions{
		Force:                 force,
		PreDeployHealthCheck:  models.HealthCheckConfig{Attempts: 2, Delay: 0},
		PostDeployHealthCheck: models.HealthCheckConfig{Attempts: 3, Delay: 0},
	}
}
