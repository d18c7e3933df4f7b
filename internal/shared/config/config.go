// Package config resolves the AWS-facing settings shared by every command:
// region override and an optional explicit access-key pair. Resolution order
// is CLI flag, then GROUPDEPLOY_* environment variable, then the config file
// at ~/.group-deploy/config.yaml. Absent credentials fall back to the
// ambient AWS credential chain.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/sorenmh/infrastructure-shared/group-deploy/models"
)

var (
	cfgFile         string
	region          string
	accessKeyID     string
	secretAccessKey string
)

// InitConfig initializes the shared configuration system
func InitConfig() {
	cobra.OnInitialize(loadConfig)
}

// AddFlags adds common configuration flags to a cobra command
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.group-deploy/config.yaml)")
	cmd.PersistentFlags().StringVar(&region, "region", "", "AWS region override (default is the group file's region)")
	cmd.PersistentFlags().StringVar(&accessKeyID, "access-key-id", "", "AWS access key ID")
	cmd.PersistentFlags().StringVar(&secretAccessKey, "secret-access-key", "", "AWS secret access key")

	viper.BindPFlag("region", cmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("accessKeyId", cmd.PersistentFlags().Lookup("access-key-id"))
	viper.BindPFlag("secretAccessKey", cmd.PersistentFlags().Lookup("secret-access-key"))
}

// loadConfig loads configuration from file and environment
func loadConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configPath := filepath.Join(home, ".group-deploy")
		viper.AddConfigPath(configPath)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("GROUPDEPLOY")
	viper.AutomaticEnv()

	// Missing config file is fine; flags and env may carry everything.
	viper.ReadInConfig()
}

// GetRegion returns the configured region override, or empty when the group
// file's region should be used.
func GetRegion() string {
	if region != "" {
		return region
	}
	return viper.GetString("region")
}

// GetCredentials returns the explicit access-key pair, or nil when the
// ambient AWS credential chain should be used.
func GetCredentials() *models.Credentials {
	id := accessKeyID
	if id == "" {
		id = viper.GetString("accessKeyId")
	}
	secret := secretAccessKey
	if secret == "" {
		secret = viper.GetString("secretAccessKey")
	}

	if id == "" || secret == "" {
		return nil
	}
	return &models.Credentials{AccessKeyID: id, SecretAccessKey: secret}
}

// ConfigureRequest represents configuration input
type ConfigureRequest struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// ConfigureInteractive runs interactive configuration
func ConfigureInteractive(currentRegion, currentAccessKeyID string) (*ConfigureRequest, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("AWS region")
	if currentRegion != "" {
		fmt.Printf(" [%s]", currentRegion)
	}
	fmt.Print(": ")

	regionInput, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	regionInput = strings.TrimSpace(regionInput)
	if regionInput == "" && currentRegion != "" {
		regionInput = currentRegion
	}

	fmt.Printf("AWS access key ID")
	if currentAccessKeyID != "" {
		fmt.Printf(" [%s]", currentAccessKeyID)
	}
	fmt.Print(": ")

	keyInput, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	keyInput = strings.TrimSpace(keyInput)
	if keyInput == "" && currentAccessKeyID != "" {
		keyInput = currentAccessKeyID
	}

	fmt.Print("AWS secret access key [hidden]: ")
	byteSecret, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, fmt.Errorf("failed to read secret access key: %w", err)
	}
	fmt.Println()
	secretInput := strings.TrimSpace(string(byteSecret))

	// Empty access key pair is valid: the ambient chain will be used.
	if (keyInput == "") != (secretInput == "") {
		return nil, fmt.Errorf("access key ID and secret access key must be provided together")
	}

	return &ConfigureRequest{
		Region:          regionInput,
		AccessKeyID:     keyInput,
		SecretAccessKey: secretInput,
	}, nil
}

// SaveConfig saves configuration to the default config file
func SaveConfig(req ConfigureRequest) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".group-deploy")
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("region", req.Region)
	viper.Set("accessKeyId", req.AccessKeyID)
	viper.Set("secretAccessKey", req.SecretAccessKey)

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Configuration saved to %s\n", configFile)
	return nil
}
