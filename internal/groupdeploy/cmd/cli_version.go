package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags (see Makefile).
var (
	// Version is the semantic version of groupdeploy
	Version = "dev"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

var cliVersionCmd = &cobra.Command{
	Use:   "cli-version",
	Short: "Show groupdeploy version",
	Long:  `Display the version information for groupdeploy.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("groupdeploy version %s\n", Version)
		fmt.Printf("commit: %s\n", GitCommit)
		fmt.Printf("built: %s\n", BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(cliVersionCmd)
}
