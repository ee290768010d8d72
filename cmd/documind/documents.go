package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/render"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage the document corpus",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		docs, err := client.Documents(cmd.Context())
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}
		fmt.Print(render.DocumentTable(docs))
		return nil
	},
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document for indexing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			if err := checkPDF(path); err != nil {
				return fmt.Errorf("refusing to upload %s: %w", path, err)
			}
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		client, _, err := newGateway()
		if err != nil {
			return err
		}

		printStep("Uploading %s...", filepath.Base(path))
		resp, err := client.Upload(cmd.Context(), filepath.Base(path), f)
		if err != nil {
			return err
		}

		printSuccess("Uploaded %s (%s)", resp.Filename, resp.Status)
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Remove a document from the corpus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete document %s and its index. Use --confirm to proceed.", args[0])
			return nil
		}

		client, _, err := newGateway()
		if err != nil {
			return err
		}

		if err := client.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		printSuccess("Deleted document %s", args[0])
		return nil
	},
}

var documentsContentCmd = &cobra.Command{
	Use:   "content <document-id>",
	Short: "Print a document's extracted text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		content, err := client.DocumentContent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(content)
		return nil
	},
}

// checkPDF opens the file with a PDF parser before spending an upload on it.
// Encrypted or truncated files fail here with a usable message instead of an
// opaque server-side extraction error.
func checkPDF(path string) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("not a readable PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return fmt.Errorf("PDF has no pages")
	}
	return nil
}

func init() {
	documentsDeleteCmd.Flags().Bool("confirm", false, "confirm deletion")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsContentCmd)
}
