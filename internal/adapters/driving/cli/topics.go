package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with chunk counts",
	RunE:  runTopics,
}

var emergencyCmd = &cobra.Command{
	Use:   "emergency",
	Short: "List emergency procedure chunks",
	RunE:  runEmergency,
}

func init() {
	rootCmd.AddCommand(topicsCmd, emergencyCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	if topicStore == nil {
		return errors.New("store not configured")
	}

	topics, err := topicStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing topics: %w", err)
	}
	if len(topics) == 0 {
		cmd.Println("No topics recorded.")
		return nil
	}

	cmd.Println(headerStyle.Render("Topics"))
	for _, t := range topics {
		cmd.Printf("  %s  %d chunks", labelStyle.Render(t.ID), t.ChunkCount)
		if t.Description != "" {
			cmd.Printf("  %s", dimStyle.Render(t.Description))
		}
		cmd.Println()
	}
	return nil
}

func runEmergency(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("store not configured")
	}

	chunks, err := chunkStore.ListAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}

	found := 0
	cmd.Println(headerStyle.Render("Emergency Procedures"))
	for _, c := range chunks {
		if !c.IsEmergencyProcedure {
			continue
		}
		found++
		cmd.Printf("  %s  %s  %s\n",
			labelStyle.Render(c.ID), criticalStyle.Render(c.EmergencyCategory), c.Heading)
	}
	if found == 0 {
		cmd.Println("  none flagged")
	}
	return nil
}
