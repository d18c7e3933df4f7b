package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	groupconfig "github.com/sorenmh/infrastructure-shared/group-deploy/config"
	"github.com/sorenmh/infrastructure-shared/group-deploy/deploy"
	"github.com/sorenmh/infrastructure-shared/group-deploy/internal/groupdeploy/output"
	sharedconfig "github.com/sorenmh/infrastructure-shared/group-deploy/internal/shared/config"
	"github.com/sorenmh/infrastructure-shared/group-deploy/logging"
	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

var deployCmd = &cobra.Command{
	Use:   "deploy [group-file]",
	Short: "Deploy the group's version to all of its environments",
	Long: `Deploy the version defined in the group file to every environment in the
group.

Without --force this is a dry-run: versions and environments are read for
real, but nothing is created or deployed. Pass --force to perform the
deployment.

Example:
  groupdeploy deploy checkout-group.yaml
  groupdeploy deploy checkout-group.yaml --force
  groupdeploy deploy checkout-group.yaml --force --yes --post-attempts 60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gf, err := groupconfig.Load(args[0])
		if err != nil {
			return err
		}

		opts, err := gf.RunOptions()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		opts.Force = force

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			opts.LogLevel = level
		}
		applyHealthCheckFlags(cmd, opts)
		opts.Credentials = sharedconfig.GetCredentials()

		group := &gf.Group
		region := group.Region
		if override := sharedconfig.GetRegion(); override != "" {
			region = override
		}

		if force && !skipConfirm {
			fmt.Println("You are about to deploy:")
			fmt.Println()
			fmt.Printf("  Group:        %s\n", group.Name)
			fmt.Printf("  Version:      %s\n", group.Version.Label)
			fmt.Printf("  Region:       %s\n", region)
			fmt.Printf("  Environments: %d\n", len(group.Environments))
			fmt.Println()
			fmt.Print("Continue? (y/n): ")

			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))

			if response != "y" && response != "yes" {
				output.Info("Deployment cancelled")
				os.Exit(2)
			}
		}

		log := logging.New(opts.LogLevel)

		client, err := platform.NewBeanstalkClient(cmd.Context(), region, opts.Credentials)
		if err != nil {
			return err
		}

		if err := deploy.New(client, log).Deploy(cmd.Context(), group, opts); err != nil {
			printFailureSummary(err)
			return err
		}

		if force {
			output.Success(fmt.Sprintf("Deployed %s to group %s", group.Version.Label, group.Name))
		} else {
			output.Success(fmt.Sprintf("Dry-run of %s for group %s complete, no changes made", group.Version.Label, group.Name))
		}
		return nil
	},
}

// applyHealthCheckFlags lets per-invocation flags override the group file's
// health-check bounds.
func applyHealthCheckFlags(cmd *cobra.Command, opts *models.RunOptions) {
	if n, _ := cmd.Flags().GetInt("pre-attempts"); n > 0 {
		opts.PreDeployHealthCheck.Attempts = n
	}
	if d, _ := cmd.Flags().GetDuration("pre-delay"); cmd.Flags().Changed("pre-delay") {
		opts.PreDeployHealthCheck.Delay = d
	}
	if n, _ := cmd.Flags().GetInt("post-attempts"); n > 0 {
		opts.PostDeployHealthCheck.Attempts = n
	}
	if d, _ := cmd.Flags().GetDuration("post-delay"); cmd.Flags().Changed("post-delay") {
		opts.PostDeployHealthCheck.Delay = d
	}
}

// printFailureSummary breaks the aggregated run error down by failure kind so
// the operator can see what never triggered versus what never became healthy.
func printFailureSummary(err error) {
	if triggerErrs := deploy.TriggerErrors(err); len(triggerErrs) > 0 {
		output.Error(fmt.Sprintf("%d environment(s) never received the deploy command:", len(triggerErrs)))
		for _, te := range triggerErrs {
			output.Error("  " + te.Error())
		}
	}
	if healthErrs := deploy.HealthCheckErrors(err); len(healthErrs) > 0 {
		output.Error(fmt.Sprintf("%d environment(s) failed health verification:", len(healthErrs)))
		for _, he := range healthErrs {
			output.Error("  " + he.Error())
		}
	}
	if provErrs := deploy.ProvisionErrors(err); len(provErrs) > 0 {
		output.Error(fmt.Sprintf("%d application(s) failed version provisioning:", len(provErrs)))
		for _, pe := range provErrs {
			output.Error("  " + pe.Error())
		}
	}
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().Bool("force", false, "Perform the deployment (default is dry-run)")
	deployCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	deployCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	deployCmd.Flags().Int("pre-attempts", 0, "Override pre-deploy health check attempts")
	deployCmd.Flags().Duration("pre-delay", 0*time.Second, "Override pre-deploy health check delay")
	deployCmd.Flags().Int("post-attempts", 0, "Override post-deploy health check attempts")
	deployCmd.Flags().Duration("post-delay", 0*time.Second, "Override post-deploy health check delay")
}
