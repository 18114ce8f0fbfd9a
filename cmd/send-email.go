package cmd

import (
	"context"
	"fmt"
	"os"

	"drive-share/domain/notification"
	"drive-share/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	emailTo       string
	emailProduct  string
	emailFileName string
	emailLink     string
	emailIconLink string
	emailDays     int
)

var sendEmailCmd = &cobra.Command{
	Use:   "send-email",
	Short: "Send a share email for a file that is already on Drive",
	Long: `Send the product's share email for an existing Drive file, for instance
when the email of an earlier upload failed.

The recipient can be an email address or an address book nickname. The
retention mentioned in the email is read from the product unless --days is set.

Examples:
  drive-share send-email --product acme --to jane --file-name report.xlsx \
    --link "https://docs.google.com/spreadsheets/d/abc/edit"`,
	RunE: runSendEmail,
}

func init() {
	rootCmd.AddCommand(sendEmailCmd)
	sendEmailCmd.Flags().StringVar(&emailTo, "to", "", "Recipient email or nickname (required)")
	sendEmailCmd.Flags().StringVar(&emailProduct, "product", "", "Product whose template is used (required)")
	sendEmailCmd.Flags().StringVar(&emailFileName, "file-name", "", "Name of the shared file (required)")
	sendEmailCmd.Flags().StringVar(&emailLink, "link", "", "Drive link of the shared file (required)")
	sendEmailCmd.Flags().StringVar(&emailIconLink, "icon-link", "", "Icon shown next to the link")
	sendEmailCmd.Flags().IntVar(&emailDays, "days", 0, "Retention to mention, overrides the product setting")

	sendEmailCmd.MarkFlagRequired("to")
	sendEmailCmd.MarkFlagRequired("product")
	sendEmailCmd.MarkFlagRequired("file-name")
	sendEmailCmd.MarkFlagRequired("link")
}

func runSendEmail(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	recipient, err := config.NewRecipientLookup(cfg).Resolve(emailTo)
	if err != nil {
		return fmt.Errorf("failed to lookup recipient: %w", err)
	}

	stack, err := newProductStack(cfg, logger)
	if err != nil {
		return err
	}
	defer stack.flushMetrics(cfg.Metrics.Textfile)

	ctx := cmd.Context()
	days := &emailDays
	if !cmd.Flags().Changed("days") {
		days, err = stack.settings.RetentionDays(ctx, emailProduct)
		if err != nil {
			return err
		}
	}

	sender, err := newGmailSender(ctx, cfg)
	if err != nil {
		return err
	}

	return RunSendEmailWithDependencies(ctx, stack.notifier(sender), notification.ShareLink{
		Recipient:       recipient.Address,
		Product:         emailProduct,
		FileName:        emailFileName,
		FileLink:        emailLink,
		FileIconLink:    emailIconLink,
		DeleteAfterDays: days,
	}, os.Stdout)
}

// RunSendEmailWithDependencies runs the send-email command with injected dependencies (for testing)
func RunSendEmailWithDependencies(
	ctx context.Context,
	notifier notification.ShareNotifier,
	link notification.ShareLink,
	output OutputWriter,
) error {
	fmt.Fprintf(output, "Sending email to: %s\n", link.Recipient)
	fmt.Fprintf(output, "Subject: %s\n", notification.ShareSubject(link.FileName))
	fmt.Fprintf(output, "Link: %s\n", link.FileLink)
	fmt.Fprintln(output)

	fmt.Fprintf(output, "Sending email...\n")
	if err := notifier.SendShareLink(ctx, link); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	fmt.Fprintf(output, "Email sent successfully!\n")
	return nil
}
