package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGroupFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "group.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		groupYAML   string
		expectError string
		validate    func(t *testing.T, gf *GroupFile)
	}{
		{
			name: "complete valid group file",
			groupYAML: `
group:
  name: checkout-group
  region: eu-west-1
  environments:
    - app: checkout
      name: checkout-blue
    - app: checkout
      name: checkout-green
    - app: payments
      name: payments-live
  version:
    label: v1.2.3
    description: "checkout release v1.2.3"
    error_if_exists: true
    artifact:
      bucket: releases
      key: checkout/v1.2.3.zip

health_checks:
  pre_deploy:
    attempts: 2
    delay: 5s
  post_deploy:
    attempts: 40
    delay: 20s
    unhealthy_statuses: [Severe, Degraded]

logging:
  level: debug
`,
			validate: func(t *testing.T, gf *GroupFile) {
				assert.Equal(t, "checkout-group", gf.Group.Name)
				assert.Equal(t, "eu-west-1", gf.Group.Region)
				assert.Len(t, gf.Group.Environments, 3)
				assert.Equal(t, "payments", gf.Group.Environments[2].App)
				assert.Equal(t, "v1.2.3", gf.Group.Version.Label)
				assert.True(t, gf.Group.Version.ErrorIfExists)
				assert.Equal(t, "releases", gf.Group.Version.Artifact.Bucket)

				opts, err := gf.RunOptions()
				require.NoError(t, err)
				assert.False(t, opts.Force) // dry-run by default
				assert.Equal(t, 2, opts.PreDeployHealthCheck.Attempts)
				assert.Equal(t, 5*time.Second, opts.PreDeployHealthCheck.Delay)
				assert.Equal(t, 40, opts.PostDeployHealthCheck.Attempts)
				assert.Equal(t, 20*time.Second, opts.PostDeployHealthCheck.Delay)
				assert.Equal(t, []string{"Severe", "Degraded"}, opts.PostDeployHealthCheck.UnhealthyStatuses)
				assert.Equal(t, "debug", opts.LogLevel)
			},
		},
		{
			name: "minimal group file with defaults",
			groupYAML: `
group:
  name: solo
  region: us-east-1
  environments:
    - app: solo
      name: solo-prod
  version:
    label: "20260825-1"
    artifact:
      bucket: releases
      key: solo/20260825-1.zip
`,
			validate: func(t *testing.T, gf *GroupFile) {
				opts, err := gf.RunOptions()
				require.NoError(t, err)
				assert.Equal(t, DefaultPreAttempts, opts.PreDeployHealthCheck.Attempts)
				assert.Equal(t, DefaultPreDelay, opts.PreDeployHealthCheck.Delay)
				assert.Equal(t, DefaultPostAttempts, opts.PostDeployHealthCheck.Attempts)
				assert.Equal(t, DefaultPostDelay, opts.PostDeployHealthCheck.Delay)
				assert.Empty(t, opts.PostDeployHealthCheck.UnhealthyStatuses)
				assert.Equal(t, "info", opts.LogLevel)
			},
		},
		{
			name: "environment variable expansion",
			groupYAML: `
group:
  name: checkout-group
  region: ${GROUP_TEST_REGION}
  environments:
    - app: checkout
      name: checkout-blue
  version:
    label: ${GROUP_TEST_LABEL}
    artifact:
      bucket: releases
      key: checkout/${GROUP_TEST_LABEL}.zip
`,
			validate: func(t *testing.T, gf *GroupFile) {
				assert.Equal(t, "eu-central-1", gf.Group.Region)
				assert.Equal(t, "v9.9.9", gf.Group.Version.Label)
				assert.Equal(t, "checkout/v9.9.9.zip", gf.Group.Version.Artifact.Key)
			},
		},
		{
			name: "invalid YAML syntax",
			groupYAML: `
group:
  name: broken
  environments: [unclosed
`,
			expectError: "failed to parse group file",
		},
		{
			name: "missing environments",
			groupYAML: `
group:
  name: empty-group
  region: eu-west-1
  version:
    label: v1
    artifact:
      bucket: releases
      key: v1.zip
`,
			expectError: "invalid group definition",
		},
		{
			name: "bad delay",
			groupYAML: `
group:
  name: checkout-group
  region: eu-west-1
  environments:
    - app: checkout
      name: checkout-blue
  version:
    label: v1
    artifact:
      bucket: releases
      key: v1.zip

health_checks:
  post_deploy:
    attempts: 5
    delay: soon
`,
			expectError: "invalid health_checks.post_deploy.delay",
		},
	}

	t.Setenv("GROUP_TEST_REGION", "eu-central-1")
	t.Setenv("GROUP_TEST_LABEL", "v9.9.9")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gf, err := Load(writeGroupFile(t, tt.groupYAML))

			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, gf)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, gf)
			if tt.validate != nil {
				tt.validate(t, gf)
			}
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	gf, err := Load("/non/existent/group.yaml")
	assert.Error(t, err)
	assert.Nil(t, gf)
	assert.Contains(t, err.Error(), "failed to read group file")
}
