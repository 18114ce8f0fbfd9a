package cmd

import (
	"context"
	"fmt"
	"os"

	appdist "drive-share/application/distribution"

	"github.com/spf13/cobra"
)

var folderProduct string

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Show the upload folder of a product, creating it if needed",
	Long: `Look up the folder named by service.google.drive.folder.name in the
product's drive. When it does not exist it is created and shared with the
configured folder collaborator.

Example:
  drive-share folder --product acme`,
	RunE: runFolder,
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.Flags().StringVar(&folderProduct, "product", "", "Product whose folder to resolve (required)")
	folderCmd.MarkFlagRequired("product")
}

func runFolder(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	stack, err := newProductStack(cfg, logger)
	if err != nil {
		return err
	}

	service := stack.uploadService(cfg.Drive.FolderCollaborator, nil)
	return RunFolderWithDependencies(cmd.Context(), service, folderProduct, os.Stdout)
}

// RunFolderWithDependencies runs the folder command with injected dependencies (for testing)
func RunFolderWithDependencies(ctx context.Context, service *appdist.UploadService, productID string, output OutputWriter) error {
	id, err := service.EnsureFolder(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to resolve folder: %s: %w", errorKind(err), err)
	}
	fmt.Fprintf(output, "Folder ID for product %s: %s\n", productID, id)
	return nil
}
