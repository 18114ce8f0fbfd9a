//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"drive-share/cmd"
	"drive-share/domain/product"
	"drive-share/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	props      *config.PropertyFile
	output     bytes.Buffer
	resolved   string
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		props, err := config.LoadProperties(filepath.Join(tempDir, "properties.yaml"))
		if err != nil {
			return c, err
		}
		*SharedConfigContext = configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config.yaml"),
			cfg:        config.Default(),
			props:      props,
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext.tempDir != "" {
			os.RemoveAll(SharedConfigContext.tempDir)
		}
		return c, nil
	})

	t := SharedConfigContext

	// Product properties
	ctx.Step(`^I set "([^"]*)" to "([^"]*)" for product "([^"]*)"$`, t.iSetForProduct)
	ctx.Step(`^I unset "([^"]*)" for product "([^"]*)"$`, t.iUnsetForProduct)
	ctx.Step(`^I get "([^"]*)" for product "([^"]*)"$`, t.iGetForProduct)
	ctx.Step(`^I list the properties of product "([^"]*)"$`, t.iListThePropertiesOfProduct)
	ctx.Step(`^I list the products$`, t.iListTheProducts)
	ctx.Step(`^the property file is reloaded$`, t.thePropertyFileIsReloaded)
	ctx.Step(`^product "([^"]*)" should have "([^"]*)" set to "([^"]*)"$`, t.productShouldHaveSetTo)
	ctx.Step(`^product "([^"]*)" should not have "([^"]*)"$`, t.productShouldNotHave)

	// Recipients
	ctx.Step(`^the address book contains:$`, t.theAddressBookContains)
	ctx.Step(`^I add recipient "([^"]*)" named "([^"]*)" with email "([^"]*)"$`, t.iAddRecipient)
	ctx.Step(`^I list the recipients$`, t.iListTheRecipients)
	ctx.Step(`^I resolve recipient "([^"]*)"$`, t.iResolveRecipient)
	ctx.Step(`^the recipient should resolve to "([^"]*)"$`, t.theRecipientShouldResolveTo)
	ctx.Step(`^the saved config should contain recipient "([^"]*)" with email "([^"]*)"$`, t.theSavedConfigShouldContainRecipient)

	// Outcomes
	ctx.Step(`^the config command should succeed$`, t.theConfigCommandShouldSucceed)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, t.theConfigCommandShouldFailWith)
	ctx.Step(`^the config output should contain "([^"]*)"$`, t.theConfigOutputShouldContain)
	ctx.Step(`^the config output should not contain "([^"]*)"$`, t.theConfigOutputShouldNotContain)
}

func (t *configContext) iSetForProduct(key, value, productID string) error {
	t.err = cmd.RunConfigSetWithDependencies(t.props, productID, key, value, &t.output)
	return nil
}

func (t *configContext) iUnsetForProduct(key, productID string) error {
	t.err = t.props.Unset(productID, key)
	return nil
}

func (t *configContext) iGetForProduct(key, productID string) error {
	t.err = cmd.RunConfigGetWithDependencies(t.props, productID, key, &t.output)
	return nil
}

func (t *configContext) iListThePropertiesOfProduct(productID string) error {
	t.err = cmd.RunConfigListWithDependencies(t.props, productID, &t.output)
	return nil
}

func (t *configContext) iListTheProducts() error {
	t.err = cmd.RunConfigListWithDependencies(t.props, "", &t.output)
	return nil
}

func (t *configContext) thePropertyFileIsReloaded() error {
	props, err := config.LoadProperties(filepath.Join(t.tempDir, "properties.yaml"))
	if err != nil {
		return err
	}
	t.props = props
	return nil
}

func (t *configContext) productShouldHaveSetTo(productID, key, value string) error {
	got, err := t.props.Property(context.Background(), productID, key)
	if err != nil {
		return err
	}
	if got != value {
		return fmt.Errorf("%s for %s = %q, want %q", key, productID, got, value)
	}
	return nil
}

func (t *configContext) productShouldNotHave(productID, key string) error {
	_, err := t.props.Property(context.Background(), productID, key)
	if !errors.Is(err, product.ErrPropertyNotFound) {
		return fmt.Errorf("expected %s to be missing for %s, got err=%v", key, productID, err)
	}
	return nil
}

func (t *configContext) theAddressBookContains(table *godog.Table) error {
	t.cfg.Email.Recipients = make(map[string]config.RecipientConfig)
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		t.cfg.Email.Recipients[row.Cells[0].Value] = config.RecipientConfig{
			Name:    row.Cells[1].Value,
			Address: row.Cells[2].Value,
		}
	}
	return config.Save(t.cfg, t.configPath)
}

func (t *configContext) iAddRecipient(key, name, email string) error {
	t.err = cmd.RunRecipientsAddWithDependencies(t.cfg, t.configPath, key, name, email, &t.output)
	return nil
}

func (t *configContext) iListTheRecipients() error {
	t.err = cmd.RunRecipientsListWithDependencies(t.cfg, t.configPath, &t.output)
	return nil
}

func (t *configContext) iResolveRecipient(query string) error {
	r, err := config.NewRecipientLookup(t.cfg).Resolve(query)
	t.err = err
	t.resolved = r.Address
	return nil
}

func (t *configContext) theRecipientShouldResolveTo(address string) error {
	if t.err != nil {
		return fmt.Errorf("resolve failed: %v", t.err)
	}
	if t.resolved != address {
		return fmt.Errorf("resolved to %q, want %q", t.resolved, address)
	}
	return nil
}

func (t *configContext) theSavedConfigShouldContainRecipient(key, email string) error {
	cfg, err := config.Load(t.configPath)
	if err != nil {
		return err
	}
	r, ok := cfg.Email.Recipients[key]
	if !ok {
		return fmt.Errorf("saved config has no recipient %q", key)
	}
	if r.Address != email {
		return fmt.Errorf("recipient %q has email %q, want %q", key, r.Address, email)
	}
	return nil
}

func (t *configContext) theConfigCommandShouldSucceed() error {
	if t.err != nil {
		return fmt.Errorf("expected success, got %v", t.err)
	}
	return nil
}

func (t *configContext) theConfigCommandShouldFailWith(text string) error {
	if t.err == nil {
		return fmt.Errorf("expected failure containing %q, got success", text)
	}
	if !strings.Contains(t.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, t.err)
	}
	return nil
}

func (t *configContext) theConfigOutputShouldContain(text string) error {
	if !strings.Contains(t.output.String(), text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, t.output.String())
	}
	return nil
}

func (t *configContext) theConfigOutputShouldNotContain(text string) error {
	if strings.Contains(t.output.String(), text) {
		return fmt.Errorf("output unexpectedly contains %q:\n%s", text, t.output.String())
	}
	return nil
}
