package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
)

// Default health-check bounds. Post-deploy gets a much larger budget since a
// rollout takes far longer than a liveness read.
const (
	DefaultPreAttempts  = 3
	DefaultPreDelay     = 10 * time.Second
	DefaultPostAttempts = 30
	DefaultPostDelay    = 15 * time.Second
)

// GroupFile is the on-disk definition of a deployment group plus the default
// run settings. Flags may override the run settings per invocation.
type GroupFile struct {
	Group        models.Group       `yaml:"group"`
	HealthChecks HealthChecksConfig `yaml:"health_checks"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type HealthChecksConfig struct {
	PreDeploy  HealthCheckConfig `yaml:"pre_deploy"`
	PostDeploy HealthCheckConfig `yaml:"post_deploy"`
}

// HealthCheckConfig mirrors models.HealthCheckConfig with a human-readable
// delay ("10s", "1m").
type HealthCheckConfig struct {
	Attempts          int      `yaml:"attempts"`
	Delay             string   `yaml:"delay"`
	UnhealthyStatuses []string `yaml:"unhealthy_statuses,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates a group file. Environment variable references
// (${VAR}) in the file are expanded before parsing.
func Load(path string) (*GroupFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read group file: %w", err)
	}

	dataStr := os.ExpandEnv(string(data))

	var gf GroupFile
	if err := yaml.Unmarshal([]byte(dataStr), &gf); err != nil {
		return nil, fmt.Errorf("failed to parse group file: %w", err)
	}

	// Set defaults
	if gf.HealthChecks.PreDeploy.Attempts == 0 {
		gf.HealthChecks.PreDeploy.Attempts = DefaultPreAttempts
	}
	if gf.HealthChecks.PreDeploy.Delay == "" {
		gf.HealthChecks.PreDeploy.Delay = DefaultPreDelay.String()
	}
	if gf.HealthChecks.PostDeploy.Attempts == 0 {
		gf.HealthChecks.PostDeploy.Attempts = DefaultPostAttempts
	}
	if gf.HealthChecks.PostDeploy.Delay == "" {
		gf.HealthChecks.PostDeploy.Delay = DefaultPostDelay.String()
	}
	if gf.Logging.Level == "" {
		gf.Logging.Level = "info"
	}

	if err := models.ValidateGroup(&gf.Group); err != nil {
		return nil, fmt.Errorf("invalid group definition: %w", err)
	}
	if _, err := gf.RunOptions(); err != nil {
		return nil, err
	}

	return &gf, nil
}

// RunOptions converts the file's run settings into models.RunOptions with
// dry-run defaults (Force false).
func (gf *GroupFile) RunOptions() (*models.RunOptions, error) {
	pre, err := gf.HealthChecks.PreDeploy.toModel("health_checks.pre_deploy")
	if err != nil {
		return nil, err
	}
	post, err := gf.HealthChecks.PostDeploy.toModel("health_checks.post_deploy")
	if err != nil {
		return nil, err
	}

	return &models.RunOptions{
		Force:                 false,
		LogLevel:              gf.Logging.Level,
		PreDeployHealthCheck:  pre,
		PostDeployHealthCheck: post,
	}, nil
}

func (hc HealthCheckConfig) toModel(field string) (models.HealthCheckConfig, error) {
	delay, err := time.ParseDuration(hc.Delay)
	if err != nil {
		return models.HealthCheckConfig{}, fmt.Errorf("invalid %s.delay %q: %w", field, hc.Delay, err)
	}
	return models.HealthCheckConfig{
		Attempts:          hc.Attempts,
		Delay:             delay,
		UnhealthyStatuses: hc.UnhealthyStatuses,
	}, nil
}
