package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	groupconfig "github.com/sorenmh/infrastructure-shared/group-deploy/config"
	"github.com/sorenmh/infrastructure-shared/group-deploy/internal/groupdeploy/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate [group-file]",
	Short: "Validate a group file without touching AWS",
	Long: `Parse and validate a group file: structure, environment names, version
label, artifact location, and health-check bounds. Makes no remote calls.

Example:
  groupdeploy validate checkout-group.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gf, err := groupconfig.Load(args[0])
		if err != nil {
			return err
		}

		group := &gf.Group
		output.Success(fmt.Sprintf("Group %s is valid", group.Name))
		fmt.Printf("  Region:       %s\n", group.Region)
		fmt.Printf("  Version:      %s (s3://%s/%s)\n",
			group.Version.Label, group.Version.Artifact.Bucket, group.Version.Artifact.Key)
		fmt.Printf("  Applications: %d\n", len(group.Applications()))
		fmt.Printf("  Environments: %d\n", len(group.Environments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
