package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"drive-share/infrastructure/config"

	"github.com/spf13/cobra"
)

var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Manage the recipient address book",
	Long: `Manage nicknames that can be passed to --to instead of an email address.

Examples:
  drive-share recipients list
  drive-share recipients add --key jane --name "Jane Doe" --email "jane@example.com"
  drive-share recipients update jane --email "jane.doe@example.com"
  drive-share recipients remove jane`,
}

func init() {
	rootCmd.AddCommand(recipientsCmd)

	recipientsCmd.AddCommand(recipientsAddCmd)
	recipientsCmd.AddCommand(recipientsListCmd)
	recipientsCmd.AddCommand(recipientsRemoveCmd)
	recipientsCmd.AddCommand(recipientsUpdateCmd)
}

// --- ADD command ---

var (
	addKey   string
	addName  string
	addEmail string
)

var recipientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recipient",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunRecipientsAddWithDependencies(cfg, cfgFile, addKey, addName, addEmail, DefaultOutput)
	},
}

func init() {
	recipientsAddCmd.Flags().StringVar(&addKey, "key", "", "Nickname of the recipient (required)")
	recipientsAddCmd.Flags().StringVar(&addName, "name", "", "Display name (required)")
	recipientsAddCmd.Flags().StringVar(&addEmail, "email", "", "Email address (required)")
	recipientsAddCmd.MarkFlagRequired("key")
	recipientsAddCmd.MarkFlagRequired("name")
	recipientsAddCmd.MarkFlagRequired("email")
}

// RunRecipientsAddWithDependencies runs the add command with injected dependencies
func RunRecipientsAddWithDependencies(cfg *config.Config, configPath, key, name, email string, out OutputWriter) error {
	if err := config.NewAddressBook(cfg, configPath).Add(key, name, email); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added recipient %q: %s <%s>\n", key, name, email)
	return nil
}

// --- LIST command ---

var recipientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunRecipientsListWithDependencies(cfg, cfgFile, DefaultOutput)
	},
}

// RunRecipientsListWithDependencies runs the list command with injected dependencies
func RunRecipientsListWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	recipients := config.NewAddressBook(cfg, configPath).Entries()
	if len(recipients) == 0 {
		fmt.Fprintln(out, "No recipients configured.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tEMAIL")
	for _, r := range recipients {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, r.Name, r.Address)
	}
	return w.Flush()
}

// --- REMOVE command ---

var recipientsRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if err := config.NewAddressBook(cfg, cfgFile).Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(DefaultOutput, "Removed recipient %q\n", args[0])
		return nil
	},
}

// --- UPDATE command ---

var (
	updateName  string
	updateEmail string
)

var recipientsUpdateCmd = &cobra.Command{
	Use:   "update <key>",
	Short: "Update a recipient's name and/or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if updateName == "" && updateEmail == "" {
			return fmt.Errorf("at least one of --name or --email is required")
		}
		err = config.NewAddressBook(cfg, cfgFile).Update(args[0], updateName, updateEmail)
		if errors.Is(err, config.ErrRecipientNotFound) {
			return fmt.Errorf("%w\n\nTo add it instead, run:\n  %s", err, config.SuggestAddCommand(args[0]))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(DefaultOutput, "Updated recipient %q\n", args[0])
		return nil
	},
}

func init() {
	recipientsUpdateCmd.Flags().StringVar(&updateName, "name", "", "New display name")
	recipientsUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "New email address")
}
