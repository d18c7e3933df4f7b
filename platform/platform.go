// Package platform abstracts the remote environment/version management API.
// The orchestration code depends only on the Client interface; the production
// implementation talks to AWS Elastic Beanstalk.
package platform

import (
	"context"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
)

// Environment status values as reported by the platform.
const (
	StatusReady       = "Ready"
	StatusLaunching   = "Launching"
	StatusUpdating    = "Updating"
	StatusTerminating = "Terminating"
	StatusTerminated  = "Terminated"
)

// Environment health codes as reported by the platform.
const (
	HealthOk       = "Ok"
	HealthInfo     = "Info"
	HealthWarning  = "Warning"
	HealthDegraded = "Degraded"
	HealthSevere   = "Severe"
	HealthPending  = "Pending"
	HealthUnknown  = "Unknown"
)

// Version is one existing application version registration.
type Version struct {
	App   string
	Label string
}

// CreateVersionInput describes a version registration request.
type CreateVersionInput struct {
	App         string
	Label       string
	Description string
	Artifact    models.ArtifactLocation
}

// OperationAck is the platform's acknowledgement of a write operation.
// Acceptance of the request, not completion of the rollout.
type OperationAck struct {
	StatusCode int
}

// OK reports whether the acknowledgement status is in the success range.
func (a *OperationAck) OK() bool {
	return a != nil && a.StatusCode >= 200 && a.StatusCode < 300
}

// Client is the capability consumed by the deploy package. Implementations
// must be safe for concurrent use; the orchestrator issues many in-flight
// requests against one client.
type Client interface {
	// DescribeVersions returns the existing versions for app matching the
	// given labels. Absent labels are simply not returned.
	DescribeVersions(ctx context.Context, app string, labels []string) ([]Version, error)

	// CreateVersion registers a new application version.
	CreateVersion(ctx context.Context, input CreateVersionInput) (*OperationAck, error)

	// DescribeEnvironments returns current status for the named environments
	// of one application, batched in a single call. Environments that do not
	// exist are omitted from the response rather than reported as errors.
	DescribeEnvironments(ctx context.Context, app string, names []string) ([]models.EnvironmentStatus, error)

	// TriggerDeploy asks the platform to begin deploying the labelled version
	// to one environment.
	TriggerDeploy(ctx context.Context, app, env, label string) (*OperationAck, error)
}
