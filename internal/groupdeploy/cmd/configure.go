package cmd

import (
	"github.com/spf13/cobra"

	sharedconfig "github.com/sorenmh/infrastructure-shared/group-deploy/internal/shared/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively configure region and credentials",
	Long: `Interactively set the AWS region override and an optional explicit access
key pair, saved to ~/.group-deploy/config.yaml.

Leave the access key pair empty to use the ambient AWS credential chain
(environment, shared config, instance profile).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := sharedconfig.ConfigureInteractive(
			sharedconfig.GetRegion(),
			"",
		)
		if err != nil {
			return err
		}
		return sharedconfig.SaveConfig(*req)
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
