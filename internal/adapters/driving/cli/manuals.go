package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

var (
	previewManualID string
	previewStart    int
	previewLimit    int
	exportOut       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested manuals",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [chunk-id]",
	Short: "Show one chunk with its metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a window of a manual's chunks",
	RunE:  runPreview,
}

var exportCmd = &cobra.Command{
	Use:   "export [manual-id]",
	Short: "Export a manual's chunk text",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [manual-id]",
	Short: "Delete a manual and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "List compliance metadata for all manuals",
	RunE:  runMetadata,
}

var setDocTypeCmd = &cobra.Command{
	Use:   "set-doc-type [manual-id] [type]",
	Short: "Override a manual's detected document type",
	Long: `Overrides the keyword-detected document type. Valid types:
manual, standard, legislation, guidance, client_spec.`,
	Args: cobra.ExactArgs(2),
	RunE: runSetDocType,
}

func init() {
	previewCmd.Flags().StringVar(&previewManualID, "manual-id", "", "manual to preview (required)")
	previewCmd.Flags().IntVar(&previewStart, "start", 0, "first chunk index")
	previewCmd.Flags().IntVar(&previewLimit, "limit", 5, "number of chunks to show")
	_ = previewCmd.MarkFlagRequired("manual-id")

	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")

	rootCmd.AddCommand(listCmd, showCmd, previewCmd, exportCmd, deleteCmd, metadataCmd, setDocTypeCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if docStore == nil || chunkStore == nil {
		return errors.New("store not configured")
	}
	ctx := cmd.Context()

	docs, err := docStore.List(ctx)
	if err != nil {
		return fmt.Errorf("listing manuals: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No manuals ingested.")
		return nil
	}

	cmd.Println(headerStyle.Render("Manuals"))
	for _, doc := range docs {
		chunks, err := chunkStore.ListByManual(ctx, doc.ManualID)
		if err != nil {
			return fmt.Errorf("counting chunks: %w", err)
		}
		cmd.Printf("  %s  %s  %d chunks  ingested %s\n",
			labelStyle.Render(doc.ManualID), doc.DocType, len(chunks),
			doc.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("store not configured")
	}

	chunk, err := chunkStore.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading chunk: %w", err)
	}

	printChunk(cmd, chunk)
	return nil
}

func printChunk(cmd *cobra.Command, chunk *domain.Chunk) {
	cmd.Println(headerStyle.Render(chunk.ID))
	cmd.Printf("%s %s\n", labelStyle.Render("Heading:"), chunk.Heading)
	if chunk.Path != "" {
		cmd.Printf("%s %s\n", labelStyle.Render("Path:"), chunk.Path)
	}
	cmd.Printf("%s %s\n", labelStyle.Render("Topic:"), chunk.TopicID)
	if chunk.IsEmergencyProcedure {
		cmd.Printf("%s %s\n", labelStyle.Render("Emergency:"), criticalStyle.Render(chunk.EmergencyCategory))
	}
	if len(chunk.DivingModes) > 0 {
		cmd.Printf("%s %s\n", labelStyle.Render("Diving modes:"), strings.Join(chunk.DivingModes, ", "))
	}
	if len(chunk.PhysiologyTags) > 0 {
		cmd.Printf("%s %s\n", labelStyle.Render("Physiology:"), strings.Join(chunk.PhysiologyTags, ", "))
	}
	if len(chunk.SystemsTags) > 0 {
		cmd.Printf("%s %s\n", labelStyle.Render("Systems:"), strings.Join(chunk.SystemsTags, ", "))
	}
	if chunk.NormativeLanguage != domain.NormativeNone {
		cmd.Printf("%s %s\n", labelStyle.Render("Normative:"), chunk.NormativeLanguage)
	}
	if len(chunk.Units) > 0 {
		cmd.Printf("%s", labelStyle.Render("Units:"))
		for _, u := range chunk.Units {
			cmd.Printf(" %s %s;", u.Value, u.Unit)
		}
		cmd.Println()
	}
	if chunk.ConflictType != "" {
		cmd.Printf("%s %s\n", labelStyle.Render("Conflict:"), highStyle.Render(string(chunk.ConflictType)))
	}
	cmd.Println()
	cmd.Println(chunk.Text)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("store not configured")
	}

	chunks, err := chunkStore.ListByManual(cmd.Context(), previewManualID)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("manual %s has no chunks", previewManualID)
	}
	if previewStart >= len(chunks) {
		return fmt.Errorf("start %d beyond %d chunks", previewStart, len(chunks))
	}

	end := previewStart + previewLimit
	if end > len(chunks) {
		end = len(chunks)
	}

	cmd.Printf("%s (chunks %d-%d of %d)\n\n",
		headerStyle.Render(previewManualID), previewStart, end-1, len(chunks))
	for i := previewStart; i < end; i++ {
		c := chunks[i]
		cmd.Printf("%s  %s\n", labelStyle.Render(c.ID), c.Heading)
		cmd.Println(dimStyle.Render(truncate(c.Text, 300)))
		cmd.Println()
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("store not configured")
	}

	chunks, err := chunkStore.ListByManual(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("manual %s has no chunks", args[0])
	}

	var b strings.Builder
	for _, c := range chunks {
		fmt.Fprintf(&b, "## %s [%s]\n\n%s\n\n", c.Heading, c.ID, c.Text)
	}

	if exportOut == "" {
		cmd.Print(b.String())
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	cmd.Printf("Exported %d chunks to %s\n", len(chunks), exportOut)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if docStore == nil || chunkStore == nil {
		return errors.New("store not configured")
	}
	ctx := cmd.Context()
	manualID := args[0]

	if err := chunkStore.DeleteByManual(ctx, manualID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if err := docStore.Delete(ctx, manualID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	cmd.Printf("Deleted %s\n", manualID)
	return nil
}

func runMetadata(cmd *cobra.Command, args []string) error {
	if docStore == nil {
		return errors.New("store not configured")
	}

	docs, err := docStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing manuals: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No manuals ingested.")
		return nil
	}

	cmd.Println(headerStyle.Render("Compliance Metadata"))
	for _, doc := range docs {
		cmd.Printf("  %s  %s\n", labelStyle.Render(doc.ManualID), doc.DocType)
		if doc.ComplianceStandard != "" {
			cmd.Printf("      standard: %s\n", doc.ComplianceStandard)
		}
		if doc.EffectiveDate != "" {
			cmd.Printf("      effective: %s\n", doc.EffectiveDate)
		}
		if doc.SupersededBy != "" {
			cmd.Printf("      superseded by: %s\n", doc.SupersededBy)
		}
		if doc.MandatoryReviewDate != "" {
			cmd.Printf("      review due: %s\n", doc.MandatoryReviewDate)
		}
	}
	return nil
}

func runSetDocType(cmd *cobra.Command, args []string) error {
	if docStore == nil {
		return errors.New("store not configured")
	}

	docType := domain.DocType(args[1])
	if !docType.Valid() {
		return fmt.Errorf("unknown doc type %q", args[1])
	}

	if err := docStore.SetDocType(cmd.Context(), args[0], docType); err != nil {
		return fmt.Errorf("setting doc type: %w", err)
	}
	cmd.Printf("%s is now %s\n", args[0], docType)
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
