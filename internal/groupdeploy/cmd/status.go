package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	groupconfig "github.com/sorenmh/infrastructure-shared/group-deploy/config"
	"github.com/sorenmh/infrastructure-shared/group-deploy/internal/groupdeploy/output"
	sharedconfig "github.com/sorenmh/infrastructure-shared/group-deploy/internal/shared/config"
	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
	"github.com/sorenmh/infrastructure-shared/group-deploy/platform"
)

var statusCmd = &cobra.Command{
	Use:   "status [group-file]",
	Short: "Show current status of every environment in the group",
	Long: `Query the current status, health, and running version of every environment
in the group. Read-only; no version is registered and nothing is deployed.

Example:
  groupdeploy status checkout-group.yaml
  groupdeploy status checkout-group.yaml -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gf, err := groupconfig.Load(args[0])
		if err != nil {
			return err
		}

		group := &gf.Group
		region := group.Region
		if override := sharedconfig.GetRegion(); override != "" {
			region = override
		}

		client, err := platform.NewBeanstalkClient(cmd.Context(), region, sharedconfig.GetCredentials())
		if err != nil {
			return err
		}

		byApp := group.EnvironmentsByApp()
		var statuses []models.EnvironmentStatus
		missing := 0
		for _, app := range group.Applications() {
			names := byApp[app]

			appStatuses, err := client.DescribeEnvironments(cmd.Context(), app, names)
			if err != nil {
				return err
			}

			found := make(map[string]bool, len(appStatuses))
			for _, st := range appStatuses {
				found[st.Name] = true
			}
			statuses = append(statuses, appStatuses...)
			for _, name := range names {
				if !found[name] {
					output.Warn(fmt.Sprintf("environment %s/%s does not exist", app, name))
					missing++
				}
			}
		}

		err = output.Print(output.Format(outputFormat), statuses, func() {
			headers := []string{"APP", "ENVIRONMENT", "STATUS", "HEALTH", "VERSION"}
			rows := make([][]string, 0, len(statuses))
			for _, st := range statuses {
				rows = append(rows, []string{st.App, st.Name, st.Status, st.Health, st.VersionLabel})
			}
			output.PrintTable(headers, rows)
		})
		if err != nil {
			return err
		}

		if missing > 0 {
			return fmt.Errorf("%d environment(s) in the group do not exist", missing)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
