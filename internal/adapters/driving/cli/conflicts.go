package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
)

var (
	conflictListStatus string
	resolveType        string
	resolveBy          string
	resolveNotes       string
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Detect and manage conflicting requirements",
}

var conflictsDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan all chunks for conflicts",
	RunE:  runConflictsDetect,
}

var conflictsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conflicts on the register",
	RunE:  runConflictsList,
}

var conflictsShowCmd = &cobra.Command{
	Use:   "show [conflict-id]",
	Short: "Show one conflict in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runConflictsShow,
}

var conflictsResolveCmd = &cobra.Command{
	Use:   "resolve [conflict-id]",
	Short: "Resolve a pending conflict",
	Long: `Records a resolution decision. Valid types: accept_chunk1,
accept_chunk2, merge, dismiss, convert_units, manual_override.`,
	Args: cobra.ExactArgs(1),
	RunE: runConflictsResolve,
}

var conflictsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the conflict register",
	RunE:  runConflictsStats,
}

func init() {
	conflictsListCmd.Flags().StringVar(&conflictListStatus, "status", "pending", "filter by status (pending/resolved/dismissed/deferred/all)")

	conflictsResolveCmd.Flags().StringVar(&resolveType, "type", "", "resolution type (required)")
	conflictsResolveCmd.Flags().StringVar(&resolveBy, "by", "", "resolver identity (required)")
	conflictsResolveCmd.Flags().StringVar(&resolveNotes, "notes", "", "resolution notes")
	_ = conflictsResolveCmd.MarkFlagRequired("type")
	_ = conflictsResolveCmd.MarkFlagRequired("by")

	conflictsCmd.AddCommand(conflictsDetectCmd, conflictsListCmd, conflictsShowCmd, conflictsResolveCmd, conflictsStatsCmd)
	rootCmd.AddCommand(conflictsCmd)
}

func runConflictsDetect(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	created, err := conflictService.DetectAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if len(created) == 0 {
		cmd.Println("No new conflicts detected.")
		return nil
	}

	cmd.Printf("%d new conflicts:\n", len(created))
	for _, c := range created {
		cmd.Printf("  %s  %s  %s\n", labelStyle.Render(c.ID), c.Type, c.Detail)
	}
	return nil
}

func runConflictsList(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	status := domain.ResolutionStatus(conflictListStatus)
	if conflictListStatus == "all" {
		status = ""
	}

	conflicts, err := conflictService.List(cmd.Context(), status)
	if err != nil {
		return fmt.Errorf("listing conflicts: %w", err)
	}
	if len(conflicts) == 0 {
		cmd.Println("No conflicts.")
		return nil
	}

	cmd.Println(headerStyle.Render("Conflicts"))
	for _, c := range conflicts {
		cmd.Printf("  %s  %s  %s  %s\n",
			labelStyle.Render(c.ID), c.Type, renderStatus(c.Status), c.Detail)
	}
	return nil
}

func runConflictsShow(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	c, err := conflictService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading conflict: %w", err)
	}

	cmd.Println(headerStyle.Render(c.ID))
	cmd.Printf("%s %s\n", labelStyle.Render("Type:"), c.Type)
	cmd.Printf("%s %s\n", labelStyle.Render("Status:"), renderStatus(c.Status))
	cmd.Printf("%s %s\n", labelStyle.Render("Topic:"), c.TopicID)
	cmd.Printf("%s %s\n", labelStyle.Render("Detail:"), c.Detail)
	cmd.Printf("%s %s vs %s\n", labelStyle.Render("Chunks:"), c.Chunk1ID, c.Chunk2ID)
	if c.Context1 != "" {
		cmd.Printf("%s %s\n", labelStyle.Render("Context 1:"), dimStyle.Render(c.Context1))
	}
	if c.Context2 != "" {
		cmd.Printf("%s %s\n", labelStyle.Render("Context 2:"), dimStyle.Render(c.Context2))
	}
	if c.Status != domain.ResolutionPending {
		cmd.Printf("%s %s by %s at %s\n", labelStyle.Render("Resolution:"),
			c.ResolutionType, c.ResolvedBy, c.ResolvedAt.Format("2006-01-02 15:04"))
		if c.ResolutionNotes != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Notes:"), c.ResolutionNotes)
		}
		if c.ResolutionType == domain.ResolveConvertUnits && c.OriginalUnit != "" {
			cmd.Printf("%s %s -> %s (factor %g)\n", labelStyle.Render("Conversion:"),
				c.OriginalUnit, c.ConvertedUnit, c.ConversionFactor)
		}
	}
	return nil
}

func runConflictsResolve(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	err := conflictService.Resolve(cmd.Context(), driving.ResolveRequest{
		ConflictID: args[0],
		Type:       domain.ResolutionType(resolveType),
		ResolvedBy: resolveBy,
		Notes:      resolveNotes,
	})
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	cmd.Printf("Resolved %s (%s)\n", args[0], resolveType)
	return nil
}

func runConflictsStats(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	stats, err := conflictService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	cmd.Println(headerStyle.Render("Conflict Register"))
	cmd.Printf("%s %d\n", labelStyle.Render("Total:"), stats.Total)

	cmd.Println(labelStyle.Render("By status:"))
	for _, status := range []domain.ResolutionStatus{
		domain.ResolutionPending, domain.ResolutionResolved,
		domain.ResolutionDismissed, domain.ResolutionDeferred,
	} {
		if n := stats.ByStatus[status]; n > 0 {
			cmd.Printf("  %s: %d\n", renderStatus(status), n)
		}
	}

	cmd.Println(labelStyle.Render("By type:"))
	for _, t := range []domain.ConflictType{domain.ConflictNumeric, domain.ConflictUnitMismatch} {
		if n := stats.ByType[t]; n > 0 {
			cmd.Printf("  %s: %d\n", t, n)
		}
	}

	if len(stats.ByResolution) > 0 {
		cmd.Println(labelStyle.Render("By resolution:"))
		for _, r := range []domain.ResolutionType{
			domain.ResolveAcceptChunk1, domain.ResolveAcceptChunk2, domain.ResolveMerge,
			domain.ResolveDismiss, domain.ResolveConvertUnits, domain.ResolveManualOverride,
		} {
			if n := stats.ByResolution[r]; n > 0 {
				cmd.Printf("  %s: %d\n", r, n)
			}
		}
	}

	cmd.Printf("%s %d\n", labelStyle.Render("Pending approvals:"), stats.PendingApprovals)
	return nil
}
