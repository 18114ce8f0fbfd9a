package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	appdist "drive-share/application/distribution"
	"drive-share/domain/distribution"
	"drive-share/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	uploadFilePath string
	uploadTo       string
	uploadProduct  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a file to a product's Google Drive and share it",
	Long: `Upload a file into the product's Google Drive folder and share it.

Before uploading, files older than the product's retention window are removed.
The folder named by the product's settings is created on first use. The
recipient gets edit access to the file and an email with the link.

--to accepts an email address or an address book nickname.

Example:
  drive-share upload --product acme --file ./report.xlsx --to jane@example.com
  drive-share upload --product acme --file ./minutes.docx --to jane`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadFilePath, "file", "", "Path of the file to upload (required)")
	uploadCmd.Flags().StringVar(&uploadTo, "to", "", "Recipient email or nickname (required)")
	uploadCmd.Flags().StringVar(&uploadProduct, "product", "", "Product whose drive receives the file (required)")
	uploadCmd.MarkFlagRequired("file")
	uploadCmd.MarkFlagRequired("to")
	uploadCmd.MarkFlagRequired("product")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	recipient, err := config.NewRecipientLookup(cfg).Resolve(uploadTo)
	if err != nil {
		return err
	}

	stack, err := newProductStack(cfg, logger)
	if err != nil {
		return err
	}
	defer stack.flushMetrics(cfg.Metrics.Textfile)

	ctx := cmd.Context()
	sender, err := newGmailSender(ctx, cfg)
	if err != nil {
		return err
	}
	service := stack.uploadService(cfg.Drive.FolderCollaborator, stack.notifier(sender))

	return RunUploadWithDependencies(ctx, service, uploadFilePath, recipient.Address, uploadProduct, os.Stdout)
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	service *appdist.UploadService,
	filePath string,
	recipient string,
	productID string,
	output OutputWriter,
) error {
	fmt.Fprintf(output, "Uploading %s to product %s...\n", filePath, productID)

	result, err := service.Upload(ctx, filePath, recipient, productID)
	if err != nil {
		return fmt.Errorf("upload failed: %s: %w", errorKind(err), err)
	}

	printSweep(output, &result.Sweep)
	fmt.Fprintf(output, "File uploaded successfully!\n")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Folder ID: %s\n", result.FolderID)
	fmt.Fprintf(output, "  Link: %s\n", result.WebViewLink)
	if result.Attempts > 1 {
		fmt.Fprintf(output, "  Attempts: %d\n", result.Attempts)
	}
	fmt.Fprintf(output, "Shared with %s and notified by email.\n", recipient)
	return nil
}

func printSweep(output OutputWriter, sweep *distribution.SweepResult) {
	if sweep == nil || sweep.Skipped {
		return
	}
	fmt.Fprintf(output, "Cleanup: %d files checked, %d deleted", sweep.Listed, len(sweep.DeletedFiles))
	if len(sweep.FailedFiles) > 0 {
		fmt.Fprintf(output, ", %d could not be deleted", len(sweep.FailedFiles))
	}
	if sweep.ListingIncomplete {
		fmt.Fprintf(output, " (listing incomplete)")
	}
	fmt.Fprintln(output)
	for _, f := range sweep.DeletedFiles {
		fmt.Fprintf(output, "  - deleted %s\n", f.Name)
	}
}

// errorKind names the failure category for the user
func errorKind(err error) string {
	switch {
	case errors.Is(err, distribution.ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, distribution.ErrConfiguration):
		return "configuration"
	case errors.Is(err, distribution.ErrAuthentication):
		return "authentication"
	case errors.Is(err, distribution.ErrNotification):
		return "notification"
	case errors.Is(err, distribution.ErrRemoteService):
		return "remote service"
	default:
		return "unexpected"
	}
}
