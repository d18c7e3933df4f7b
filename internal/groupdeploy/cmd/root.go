package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sorenmh/infrastructure-shared/group-deploy/internal/shared/config"
)

var (
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "groupdeploy",
	Short: "Roll one version out to a group of Beanstalk environments",
	Long: `groupdeploy deploys a single application version to a named group of
Elastic Beanstalk environments, possibly spanning applications, in one region.

A run registers the version with every application in the group, verifies the
group is healthy, triggers the deploy on every environment concurrently, and
then verifies the new version is live and healthy everywhere. Failures are
collected per environment so one bad environment never hides the state of the
others.

Runs are dry-run by default: reads execute for real, writes are only logged.
Pass --force to deploy.

Configuration:
  Environment variables:
    GROUPDEPLOY_REGION             - AWS region override
    GROUPDEPLOY_ACCESSKEYID        - explicit AWS access key ID
    GROUPDEPLOY_SECRETACCESSKEY    - explicit AWS secret access key

  Config file (~/.group-deploy/config.yaml):
    region: eu-west-1
    accessKeyId: AKIA...
    secretAccessKey: ...

  When no access key pair is configured, the ambient AWS credential chain is
  used. CLI flags override environment variables and config file.

Example usage:
  groupdeploy validate checkout-group.yaml
  groupdeploy status checkout-group.yaml
  groupdeploy deploy checkout-group.yaml
  groupdeploy deploy checkout-group.yaml --force --yes`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.InitConfig()
	config.AddFlags(rootCmd)

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
}
