// Package cli implements the cobra command surface. Commands talk to
// the core exclusively through the driving ports; wiring happens in
// cmd/manualmind.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
	"github.com/oceanic-labs/manualmind/internal/logger"
)

// Services and stores injected by cmd/manualmind before Execute.
var (
	ingestService   driving.IngestService
	askService      driving.AskService
	gapService      driving.GapService
	conflictService driving.ConflictService

	docStore   driven.DocumentStore
	chunkStore driven.ChunkStore
	topicStore driven.TopicStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "manualmind",
	Short: "Intelligence engine for diving operations manuals",
	Long: `ManualMind ingests commercial diving operations manuals and standards,
chunks them along their heading hierarchy, tags them with domain metadata,
and answers questions, finds compliance gaps and flags conflicting
requirements across documents.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Dependencies carries everything the commands need.
type Dependencies struct {
	Ingest    driving.IngestService
	Ask       driving.AskService
	Gap       driving.GapService
	Conflicts driving.ConflictService

	Documents driven.DocumentStore
	Chunks    driven.ChunkStore
	Topics    driven.TopicStore
}

// Execute injects dependencies and runs the root command.
func Execute(deps Dependencies) error {
	ingestService = deps.Ingest
	askService = deps.Ask
	gapService = deps.Gap
	conflictService = deps.Conflicts
	docStore = deps.Documents
	chunkStore = deps.Chunks
	topicStore = deps.Topics

	return rootCmd.Execute()
}
