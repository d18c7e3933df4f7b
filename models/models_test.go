package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGroup() *Group {
	return &Group{
		Name:   "checkout-group",
		Region: "eu-west-1",
		Environments: []Environment{
			{App: "checkout", Name: "checkout-blue"},
			{App: "checkout", Name: "checkout-green"},
			{App: "payments", Name: "payments-live"},
		},
		Version: VersionSpec{
			Artifact: ArtifactLocation{Bucket: "releases", Key: "checkout/v1.2.3.zip"},
			Label:    "v1.2.3",
		},
	}
}

func TestGroupApplications(t *testing.T) {
	g := validGroup()

	apps := g.Applications()
	assert.Equal(t, []string{"checkout", "payments"}, apps)
}

func TestGroupApplicationsFirstOccurrenceOrder(t *testing.T) {
	g := &Group{
		Environments: []Environment{
			{App: "b", Name: "b-1"},
			{App: "a", Name: "a-1"},
			{App: "b", Name: "b-2"},
			{App: "c", Name: "c-1"},
		},
	}

	assert.Equal(t, []string{"b", "a", "c"}, g.Applications())
}

func TestGroupEnvironmentsByApp(t *testing.T) {
	g := validGroup()

	byApp := g.EnvironmentsByApp()
	require.Len(t, byApp, 2)
	assert.Equal(t, []string{"checkout-blue", "checkout-green"}, byApp["checkout"])
	assert.Equal(t, []string{"payments-live"}, byApp["payments"])
}

func TestValidateGroup(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(g *Group)
		expectError string
	}{
		{
			name:   "valid group",
			mutate: func(g *Group) {},
		},
		{
			name:        "missing name",
			mutate:      func(g *Group) { g.Name = "" },
			expectError: "is required",
		},
		{
			name:        "missing region",
			mutate:      func(g *Group) { g.Region = "" },
			expectError: "is required",
		},
		{
			name:        "no environments",
			mutate:      func(g *Group) { g.Environments = nil },
			expectError: "Environments",
		},
		{
			name: "invalid environment name",
			mutate: func(g *Group) {
				g.Environments[0].Name = "-starts-with-hyphen"
			},
			expectError: "valid Beanstalk name",
		},
		{
			name: "invalid version label",
			mutate: func(g *Group) {
				g.Version.Label = "has spaces"
			},
			expectError: "valid version label",
		},
		{
			name: "duplicate environment",
			mutate: func(g *Group) {
				g.Environments = append(g.Environments, Environment{App: "checkout", Name: "checkout-blue"})
			},
			expectError: "duplicate environment",
		},
		{
			name: "missing artifact",
			mutate: func(g *Group) {
				g.Version.Artifact = ArtifactLocation{}
			},
			expectError: "Bucket: is required",
		},
		{
			name: "missing artifact key",
			mutate: func(g *Group) {
				g.Version.Artifact.Key = ""
			},
			expectError: "Key: is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGroup()
			tt.mutate(g)

			err := ValidateGroup(g)
			if tt.expectError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			}
		})
	}
}

func TestValidateRunOptions(t *testing.T) {
	opts := &RunOptions{
		PreDeployHealthCheck:  HealthCheckConfig{Attempts: 1, Delay: 0},
		PostDeployHealthCheck: HealthCheckConfig{Attempts: 5, Delay: 10 * time.Second},
	}
	assert.NoError(t, ValidateRunOptions(opts))

	opts.PostDeployHealthCheck.Attempts = 0
	err := ValidateRunOptions(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post_deploy_health_check.attempts")

	opts.PreDeployHealthCheck.Delay = -time.Second
	err = ValidateRunOptions(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre_deploy_health_check.delay")
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "region", Message: "is required"},
	}
	assert.Contains(t, errs.Error(), "multiple validation errors")

	single := ValidationErrors{{Field: "name", Message: "is required"}}
	assert.Equal(t, "name: is required", single.Error())
}
