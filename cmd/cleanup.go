package cmd

import (
	"context"
	"fmt"
	"os"

	appdist "drive-share/application/distribution"

	"github.com/spf13/cobra"
)

var (
	cleanupProduct string
	cleanupAll     bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove files older than a product's retention window",
	Long: `Delete files owned by the product's service account that are older than
service.google.drive.keep.days. Folders and files shared with the account are
never touched. Products without a retention setting are skipped.

Example:
  drive-share cleanup --product acme
  drive-share cleanup --all`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringVar(&cleanupProduct, "product", "", "Product to clean up")
	cleanupCmd.Flags().BoolVar(&cleanupAll, "all", false, "Clean up every product in the property file")
	cleanupCmd.MarkFlagsMutuallyExclusive("product", "all")
	cleanupCmd.MarkFlagsOneRequired("product", "all")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	stack, err := newProductStack(cfg, logger)
	if err != nil {
		return err
	}
	defer stack.flushMetrics(cfg.Metrics.Textfile)

	products := []string{cleanupProduct}
	if cleanupAll {
		products = stack.properties.Products()
	}

	service := stack.uploadService(cfg.Drive.FolderCollaborator, nil)
	return RunCleanupWithDependencies(cmd.Context(), service, products, os.Stdout)
}

// RunCleanupWithDependencies runs the cleanup command with injected dependencies (for testing)
func RunCleanupWithDependencies(ctx context.Context, service *appdist.UploadService, products []string, output OutputWriter) error {
	if len(products) == 0 {
		fmt.Fprintln(output, "No products configured.")
		return nil
	}

	var failed int
	for _, p := range products {
		fmt.Fprintf(output, "Product %s:\n", p)
		result, err := service.Cleanup(ctx, p)
		if err != nil {
			fmt.Fprintf(output, "  cleanup failed: %v\n", err)
			failed++
			continue
		}
		if result.Skipped {
			fmt.Fprintln(output, "  no retention configured, skipped")
			continue
		}
		printSweep(output, result)
	}

	if failed > 0 {
		return fmt.Errorf("cleanup failed for %d of %d products", failed, len(products))
	}
	return nil
}
