package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"drive-share/domain/product"
	"drive-share/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage per-product properties",
	Long: `Manage the per-product properties stored in the property file.

Known keys:
  service.google.drive.secret.JSON     service account key (use --from-file)
  service.google.drive.folder.name     upload folder name
  service.google.drive.keep.days       retention in days, unset to keep files
  service.google.drive.email.template  HTML template of the share email

Examples:
  drive-share config set acme service.google.drive.folder.name Reports
  drive-share config set acme service.google.drive.secret.JSON --from-file key.json
  drive-share config get acme service.google.drive.keep.days
  drive-share config list acme
  drive-share config unset acme service.google.drive.keep.days`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configUnsetCmd)
}

func openProperties() (*config.PropertyFile, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	return config.LoadProperties(cfg.PropertiesFile)
}

// --- SET command ---

var setFromFile string

var configSetCmd = &cobra.Command{
	Use:   "set <product> <key> [value]",
	Short: "Set a product property",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Flags().StringVar(&setFromFile, "from-file", "", "Read the value from a file")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	props, err := openProperties()
	if err != nil {
		return err
	}

	var value string
	switch {
	case setFromFile != "" && len(args) == 3:
		return fmt.Errorf("give either a value or --from-file, not both")
	case setFromFile != "":
		data, err := os.ReadFile(setFromFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", setFromFile, err)
		}
		value = string(data)
	case len(args) == 3:
		value = args[2]
	default:
		return fmt.Errorf("a value or --from-file is required")
	}

	return RunConfigSetWithDependencies(props, args[0], args[1], value, DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(props *config.PropertyFile, productID, key, value string, out OutputWriter) error {
	if !isKnownKey(key) {
		fmt.Fprintf(out, "Warning: %q is not a key drive-share reads\n", key)
	}
	if err := props.Set(productID, key, value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Set %s for product %s\n", key, productID)
	return nil
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <product> <key>",
	Short: "Print a product property",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := openProperties()
		if err != nil {
			return err
		}
		return RunConfigGetWithDependencies(props, args[0], args[1], DefaultOutput)
	},
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(props *config.PropertyFile, productID, key string, out OutputWriter) error {
	value, ok := props.List(productID)[key]
	if !ok {
		return fmt.Errorf("%w: %s for product %s", product.ErrPropertyNotFound, key, productID)
	}
	fmt.Fprintln(out, displayValue(key, value))
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list [product]",
	Short: "List products, or the properties of one product",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := openProperties()
		if err != nil {
			return err
		}
		productID := ""
		if len(args) == 1 {
			productID = args[0]
		}
		return RunConfigListWithDependencies(props, productID, DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(props *config.PropertyFile, productID string, out OutputWriter) error {
	if productID == "" {
		products := props.Products()
		if len(products) == 0 {
			fmt.Fprintln(out, "No products configured.")
			return nil
		}
		for _, p := range products {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	values := props.List(productID)
	if len(values) == 0 {
		fmt.Fprintf(out, "No properties configured for product %s.\n", productID)
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, firstLine(displayValue(k, values[k])))
	}
	return w.Flush()
}

// --- UNSET command ---

var configUnsetCmd = &cobra.Command{
	Use:   "unset <product> <key>",
	Short: "Remove a product property",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := openProperties()
		if err != nil {
			return err
		}
		if err := props.Unset(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(DefaultOutput, "Removed %s from product %s\n", args[1], args[0])
		return nil
	},
}

func isKnownKey(key string) bool {
	switch key {
	case product.KeyDriveCredentials, product.KeyFolderName, product.KeyRetentionDays, product.KeyEmailTemplate:
		return true
	}
	return false
}

// displayValue hides service account keys
func displayValue(key, value string) string {
	if key == product.KeyDriveCredentials {
		return fmt.Sprintf("<service account key, %d bytes>", len(value))
	}
	return value
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
