//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"drive-share/cmd"
	"drive-share/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		*SharedSetupContext = setupContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSetupContext.tempDir != "" {
			os.RemoveAll(SharedSetupContext.tempDir)
		}
		return c, nil
	})

	s := SharedSetupContext

	ctx.Step(`^no config file exists for setup$`, s.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, s.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, s.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, s.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)" and inputs:$`, s.iRunTheSetupCommandWithConfirmationAndInputs)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, s.theSetupShouldFailWith)
	ctx.Step(`^a config file should exist$`, s.aConfigFileShouldExist)
	ctx.Step(`^the config should have properties_file "([^"]*)"$`, s.theConfigShouldHavePropertiesFile)
	ctx.Step(`^the config should have folder_collaborator "([^"]*)"$`, s.theConfigShouldHaveFolderCollaborator)
	ctx.Step(`^the config should have from_address "([^"]*)"$`, s.theConfigShouldHaveFromAddress)
	ctx.Step(`^the config should have (\d+) retry attempts$`, s.theConfigShouldHaveRetryAttempts)
	ctx.Step(`^the config should have the circuit breaker (enabled|disabled)$`, s.theConfigShouldHaveTheCircuitBreaker)
	ctx.Step(`^the config should have a quick-lookup recipient "([^"]*)"$`, s.theConfigShouldHaveAQuickLookupRecipient)
	ctx.Step(`^the setup should be cancelled$`, s.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, s.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `properties_file: /original/properties.yaml
drive:
  application_name: original
email:
  from_name: Original Reports
  from_address: original@example.com
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms := parseInputTable(table)
	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, confirms), s.configPath, &s.output)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(nil, []bool{confirm}), s.configPath, &s.output)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmationAndInputs(confirmation string, table *godog.Table) error {
	confirm := strings.ToLower(confirmation) == "y"
	inputs, confirms := parseInputTable(table)

	// Prepend the overwrite confirmation
	allConfirms := append([]bool{confirm}, confirms...)
	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, allConfirms), s.configPath, &s.output)
	return nil
}

// parseInputTable splits a prompt/value table into text inputs and yes/no
// answers. Prompts starting with "add" or "enable" are confirmations.
func parseInputTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		if strings.HasPrefix(prompt, "add") || strings.HasPrefix(prompt, "enable") {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) loadConfig() (*config.Config, error) {
	if s.err != nil {
		return nil, fmt.Errorf("setup command failed: %w", s.err)
	}
	return config.Load(s.configPath)
}

func (s *setupContext) theSetupShouldFailWith(text string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail with %q", text)
	}
	if !strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, s.err)
	}
	return nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theConfigShouldHavePropertiesFile(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.PropertiesFile != expected {
		return fmt.Errorf("expected properties_file %q, got %q", expected, cfg.PropertiesFile)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveFolderCollaborator(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Drive.FolderCollaborator != expected {
		return fmt.Errorf("expected folder_collaborator %q, got %q", expected, cfg.Drive.FolderCollaborator)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveFromAddress(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Email.FromAddress != expected {
		return fmt.Errorf("expected from_address %q, got %q", expected, cfg.Email.FromAddress)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveRetryAttempts(expected int) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Retry.Attempts != expected {
		return fmt.Errorf("expected %d retry attempts, got %d", expected, cfg.Retry.Attempts)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveTheCircuitBreaker(state string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Retry.BreakerEnabled != (state == "enabled") {
		return fmt.Errorf("expected circuit breaker %s, got breaker_enabled=%v", state, cfg.Retry.BreakerEnabled)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveAQuickLookupRecipient(key string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Email.Recipients[key]; !ok {
		return fmt.Errorf("quick-lookup recipient %q not found", key)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if s.err != nil {
		return fmt.Errorf("expected clean cancellation, got %v", s.err)
	}
	if !strings.Contains(s.output.String(), "Setup cancelled.") {
		return fmt.Errorf("expected cancellation message, got:\n%s", s.output.String())
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config file was modified")
	}
	return nil
}
