package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

var (
	approvalApprover string
	approvalLevel    int
	approvalComments string
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Manage sign-off on resolved conflicts",
}

var approvalsRequestCmd = &cobra.Command{
	Use:   "request [conflict-id]",
	Short: "Request sign-off for a resolved conflict",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprovalsRequest,
}

var approvalsApproveCmd = &cobra.Command{
	Use:   "approve [conflict-id]",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprovalsApprove,
}

var approvalsRejectCmd = &cobra.Command{
	Use:   "reject [conflict-id]",
	Short: "Reject a pending request",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprovalsReject,
}

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending approval requests",
	RunE:  runApprovalsList,
}

func init() {
	approvalsRequestCmd.Flags().StringVar(&approvalApprover, "approver", "", "approver identity (required)")
	approvalsRequestCmd.Flags().IntVar(&approvalLevel, "level", 1, "approval level (1=supervisor, 2=manager, 3=compliance officer)")
	_ = approvalsRequestCmd.MarkFlagRequired("approver")

	approvalsApproveCmd.Flags().StringVar(&approvalApprover, "approver", "", "approver identity (required)")
	approvalsApproveCmd.Flags().StringVar(&approvalComments, "comments", "", "approval comments")
	_ = approvalsApproveCmd.MarkFlagRequired("approver")

	approvalsRejectCmd.Flags().StringVar(&approvalApprover, "approver", "", "approver identity (required)")
	approvalsRejectCmd.Flags().StringVar(&approvalComments, "comments", "", "rejection comments")
	_ = approvalsRejectCmd.MarkFlagRequired("approver")

	approvalsListCmd.Flags().StringVar(&approvalApprover, "approver", "", "filter by approver")

	approvalsCmd.AddCommand(approvalsRequestCmd, approvalsApproveCmd, approvalsRejectCmd, approvalsListCmd)
	rootCmd.AddCommand(approvalsCmd)
}

func runApprovalsRequest(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	level := domain.ApprovalLevel(approvalLevel)
	if err := conflictService.RequestApproval(cmd.Context(), args[0], approvalApprover, level); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	cmd.Printf("Approval requested for %s from %s (%s)\n", args[0], approvalApprover, level)
	return nil
}

func runApprovalsApprove(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	if err := conflictService.Approve(cmd.Context(), args[0], approvalApprover, approvalComments); err != nil {
		return fmt.Errorf("approve failed: %w", err)
	}
	cmd.Printf("%s approved by %s\n", args[0], approvalApprover)
	return nil
}

func runApprovalsReject(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	if err := conflictService.Reject(cmd.Context(), args[0], approvalApprover, approvalComments); err != nil {
		return fmt.Errorf("reject failed: %w", err)
	}
	cmd.Printf("%s rejected by %s\n", args[0], approvalApprover)
	return nil
}

func runApprovalsList(cmd *cobra.Command, args []string) error {
	if conflictService == nil {
		return errors.New("conflict service not configured")
	}

	reqs, err := conflictService.PendingApprovals(cmd.Context(), approvalApprover)
	if err != nil {
		return fmt.Errorf("listing approvals: %w", err)
	}
	if len(reqs) == 0 {
		cmd.Println("No pending approvals.")
		return nil
	}

	cmd.Println(headerStyle.Render("Pending Approvals"))
	for _, req := range reqs {
		cmd.Printf("  %s  level %d (%s)  awaiting %s\n",
			labelStyle.Render(req.ConflictID), req.Level, req.Level, req.Approver)
	}
	return nil
}
