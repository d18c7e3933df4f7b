package models

import "time"

// Environment identifies one deployable Beanstalk environment. Several
// environments in a group may belong to the same application.
type Environment struct {
	App  string `json:"app" yaml:"app" validate:"required,eb_name"`
	Name string `json:"name" yaml:"name" validate:"required,eb_name"`
}

// String returns the app-qualified environment name used in logs and errors.
func (e Environment) String() string {
	return e.App + "/" + e.Name
}

// ArtifactLocation points at the S3 source bundle for a version.
type ArtifactLocation struct {
	Bucket string `json:"bucket" yaml:"bucket" validate:"required"`
	Key    string `json:"key" yaml:"key" validate:"required"`
}

// VersionSpec describes the application version to register and deploy.
// Label is the unique identifier used both to register the version and to
// verify post-deploy that it is live.
type VersionSpec struct {
	Artifact      ArtifactLocation `json:"artifact" yaml:"artifact"`
	Label         string           `json:"label" yaml:"label" validate:"required,version_label"`
	Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
	ErrorIfExists bool             `json:"error_if_exists,omitempty" yaml:"error_if_exists,omitempty"`
}

// Group is the unit of orchestration: a named set of environments, possibly
// spanning applications, deployed together with one version in one region.
type Group struct {
	Name         string        `json:"name" yaml:"name" validate:"required"`
	Region       string        `json:"region" yaml:"region" validate:"required"`
	Environments []Environment `json:"environments" yaml:"environments" validate:"required,min=1,dive"`
	Version      VersionSpec   `json:"version" yaml:"version"`
}

// Applications returns the distinct application names among the group's
// environments, in order of first occurrence.
func (g *Group) Applications() []string {
	seen := make(map[string]bool, len(g.Environments))
	var apps []string
	for _, env := range g.Environments {
		if !seen[env.App] {
			seen[env.App] = true
			apps = append(apps, env.App)
		}
	}
	return apps
}

// EnvironmentsByApp groups the environment names by application, preserving
// first-occurrence order within each application.
func (g *Group) EnvironmentsByApp() map[string][]string {
	byApp := make(map[string][]string)
	for _, env := range g.Environments {
		byApp[env.App] = append(byApp[env.App], env.Name)
	}
	return byApp
}

// HealthCheckConfig bounds one health-verification loop. Attempts must be at
// least 1; the loop terminates after at most Attempts rounds.
type HealthCheckConfig struct {
	Attempts int           `json:"attempts" yaml:"attempts" validate:"min=1"`
	Delay    time.Duration `json:"delay" yaml:"delay" validate:"min=0"`
	// UnhealthyStatuses overrides the health codes treated as unhealthy.
	// Empty means the default set (Severe, Degraded, Warning).
	UnhealthyStatuses []string `json:"unhealthy_statuses,omitempty" yaml:"unhealthy_statuses,omitempty"`
}

// Credentials is an optional explicit access-key pair. When nil, the ambient
// AWS credential chain is used.
type Credentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty" yaml:"session_token,omitempty"`
}

// RunOptions carries the per-invocation settings for one orchestration run.
// Force=false is dry-run: reads still execute, writes are simulated.
type RunOptions struct {
	Force                 bool              `json:"force" yaml:"force"`
	LogLevel              string            `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	PreDeployHealthCheck  HealthCheckConfig `json:"pre_deploy_health_check" yaml:"pre_deploy_health_check"`
	PostDeployHealthCheck HealthCheckConfig `json:"post_deploy_health_check" yaml:"post_deploy_health_check"`
	Credentials           *Credentials      `json:"-" yaml:"-"`
}

// EnvironmentStatus is the transient state of one remote environment as
// returned by a describe call.
type EnvironmentStatus struct {
	App          string `json:"app"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Health       string `json:"health"`
	VersionLabel string `json:"version_label"`
}
