package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"drive-share/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up your configuration file
with the property file location, Google Drive settings, the Gmail sender
and quick-lookup recipients.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = "config/config.yaml"
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to drive-share setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptDrive(prompter, cfg); err != nil {
		return err
	}

	if err := promptEmail(prompter, cfg); err != nil {
		return err
	}

	if err := promptRetry(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	fmt.Fprintf(out, "Add product settings with 'drive-share config set <product> <key> <value>'.\n")
	return nil
}

func promptDrive(prompter Prompter, cfg *config.Config) error {
	props, err := prompter.Input("Path to the product property file?", cfg.PropertiesFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if props != "" {
		cfg.PropertiesFile = props
	}

	appName, err := prompter.Input("Application name reported to Google?", cfg.Drive.ApplicationName)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if appName != "" {
		cfg.Drive.ApplicationName = appName
	}

	collaborator, err := prompter.Input("Email to share newly created folders with (blank for none)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if collaborator != "" && !strings.Contains(collaborator, "@") {
		return fmt.Errorf("folder collaborator must be an email address")
	}
	cfg.Drive.FolderCollaborator = collaborator

	return nil
}

func promptEmail(prompter Prompter, cfg *config.Config) error {
	// From details
	fromName, err := prompter.Input("Display name for outgoing emails?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if fromName == "" {
		return fmt.Errorf("from name is required")
	}
	cfg.Email.FromName = fromName

	fromAddress, err := prompter.Input("Gmail address to send from?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if fromAddress == "" {
		return fmt.Errorf("from address is required")
	}
	cfg.Email.FromAddress = fromAddress

	credentials, err := prompter.Input("Path to Gmail OAuth client credentials file?", cfg.Email.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials != "" {
		cfg.Email.CredentialsFile = credentials
	}

	// Quick-lookup recipients
	cfg.Email.Recipients = make(map[string]config.RecipientConfig)
	for {
		addRecipient, err := prompter.Confirm("Add a quick-lookup recipient?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !addRecipient {
			break
		}

		nickname, err := prompter.Input("  Nickname:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if nickname == "" {
			return fmt.Errorf("nickname is required")
		}

		recipient, err := promptRecipientWithPrompter(prompter)
		if err != nil {
			return err
		}
		cfg.Email.Recipients[nickname] = recipient
	}

	return nil
}

func promptRetry(prompter Prompter, cfg *config.Config) error {
	attempts, err := prompter.Input("How many times should remote operations be attempted?", strconv.Itoa(cfg.Retry.Attempts))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if attempts != "" {
		n, err := strconv.Atoi(attempts)
		if err != nil || n < 1 {
			return fmt.Errorf("attempts must be a positive number")
		}
		cfg.Retry.Attempts = n
	}

	breaker, err := prompter.Confirm("Enable the circuit breaker?", cfg.Retry.BreakerEnabled)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Retry.BreakerEnabled = breaker

	return nil
}

func promptRecipientWithPrompter(prompter Prompter) (config.RecipientConfig, error) {
	name, err := prompter.Input("  Full name:", "")
	if err != nil {
		return config.RecipientConfig{}, fmt.Errorf("prompt cancelled")
	}
	if name == "" {
		return config.RecipientConfig{}, fmt.Errorf("name is required")
	}

	address, err := prompter.Input("  Email:", "")
	if err != nil {
		return config.RecipientConfig{}, fmt.Errorf("prompt cancelled")
	}
	if address == "" {
		return config.RecipientConfig{}, fmt.Errorf("email is required")
	}

	return config.RecipientConfig{
		Name:    name,
		Address: address,
	}, nil
}
