package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askInclude []string
	askTopK    int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the ingested manuals",
	Long: `Embeds the question, retrieves the most similar chunks and asks the
configured provider for an answer grounded only on those chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVar(&askInclude, "include", nil, "only consider manuals whose id contains any of these substrings")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to ground the answer on (0 = default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}

	answer, err := askService.Ask(cmd.Context(), args[0], askInclude, askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(headerStyle.Render("Answer"))
	cmd.Println()
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Println(headerStyle.Render("Sources"))
	for i, src := range answer.Sources {
		cmd.Printf("  [%d] %s  %s  (sim %.3f)\n", i+1, src.Chunk.ID, src.Chunk.Heading, src.Similarity)
		if src.Chunk.Path != "" {
			cmd.Printf("      %s\n", dimStyle.Render(src.Chunk.Path))
		}
	}
	return nil
}
