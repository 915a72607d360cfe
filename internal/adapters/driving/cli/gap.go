package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
)

var (
	gapStandardID string
	gapManualID   string
	gapMaxClauses int
	gapStartIndex int
	gapTopN       int
	gapMinSim     float64
	gapOutCSV     string
	gapOutHTML    string
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Find coverage gaps between a manual and a standard",
	Long: `Walks the standard clause by clause, retrieves the closest manual
content and judges coverage. Clauses with no similar manual content are
marked Not Covered without consulting the provider.`,
	RunE: runGap,
}

func init() {
	gapCmd.Flags().StringVar(&gapStandardID, "standard-id", "", "manual id of the standard (required)")
	gapCmd.Flags().StringVar(&gapManualID, "manual-id", "", "manual id of the operations manual (required)")
	gapCmd.Flags().IntVar(&gapMaxClauses, "max-clauses", 0, "cap on clauses examined (0 = all)")
	gapCmd.Flags().IntVar(&gapStartIndex, "start-index", 0, "skip the first N clauses")
	gapCmd.Flags().IntVar(&gapTopN, "top-n", 0, "manual chunks retrieved per clause (0 = default)")
	gapCmd.Flags().Float64Var(&gapMinSim, "min-sim", 0, "similarity short-circuit threshold (0 = default)")
	gapCmd.Flags().StringVar(&gapOutCSV, "out-csv", "", "write the report as CSV to this path")
	gapCmd.Flags().StringVar(&gapOutHTML, "out-html", "", "write the report as HTML to this path")
	_ = gapCmd.MarkFlagRequired("standard-id")
	_ = gapCmd.MarkFlagRequired("manual-id")
	rootCmd.AddCommand(gapCmd)
}

func runGap(cmd *cobra.Command, args []string) error {
	if gapService == nil {
		return errors.New("gap service not configured")
	}

	rows, err := gapService.Analyze(cmd.Context(), driving.GapOptions{
		StandardID:    gapStandardID,
		ManualID:      gapManualID,
		MaxClauses:    gapMaxClauses,
		StartIndex:    gapStartIndex,
		TopN:          gapTopN,
		MinSimilarity: gapMinSim,
	})
	if err != nil {
		return fmt.Errorf("gap analysis failed: %w", err)
	}

	printGapReport(cmd, rows)

	if gapOutCSV != "" {
		if err := writeGapCSV(gapOutCSV, rows); err != nil {
			return fmt.Errorf("writing CSV report: %w", err)
		}
		cmd.Printf("CSV report written to %s\n", gapOutCSV)
	}
	if gapOutHTML != "" {
		if err := writeGapHTML(gapOutHTML, gapStandardID, gapManualID, rows); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
		cmd.Printf("HTML report written to %s\n", gapOutHTML)
	}
	return nil
}

func printGapReport(cmd *cobra.Command, rows []domain.CoverageRow) {
	counts := make(map[domain.Coverage]int)
	for _, row := range rows {
		counts[row.Coverage]++
	}

	cmd.Println(headerStyle.Render(fmt.Sprintf("Gap Analysis: %s vs %s", gapManualID, gapStandardID)))
	cmd.Printf("%d clauses: %d covered, %d partial, %d not covered\n\n",
		len(rows), counts[domain.Covered], counts[domain.PartiallyCovered], counts[domain.NotCovered])

	for _, row := range rows {
		if row.Coverage == domain.Covered {
			continue // only gaps need attention in terminal output
		}
		cmd.Printf("%s  %s  %s\n", labelStyle.Render(row.StandardChunkID), row.Coverage, renderSeverity(row.Severity))
		cmd.Printf("  %s\n", row.StandardPreview)
		cmd.Printf("  %s\n\n", dimStyle.Render(row.Reason))
	}
}

// gapCSVHeader matches the column order of writeGapCSV rows.
var gapCSVHeader = []string{
	"standard_chunk_id", "coverage", "severity", "best_similarity",
	"manual_chunk_ids", "reason", "standard_preview",
}

func writeGapCSV(path string, rows []domain.CoverageRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(gapCSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.StandardChunkID,
			string(row.Coverage),
			string(row.Severity),
			strconv.FormatFloat(row.BestSimilarity, 'f', 3, 64),
			strings.Join(row.ManualChunkIDs, ";"),
			row.Reason,
			row.StandardPreview,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var gapHTMLTemplate = template.Must(template.New("gap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Gap Analysis: {{.ManualID}} vs {{.StandardID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
.sev-Critical { color: #b00; font-weight: bold; }
.sev-High { color: #d60; }
.sev-Medium { color: #a80; }
.sev-None { color: #080; }
</style>
</head>
<body>
<h1>Gap Analysis: {{.ManualID}} vs {{.StandardID}}</h1>
<table>
<tr><th>Clause</th><th>Coverage</th><th>Severity</th><th>Best Sim</th><th>Preview</th><th>Reason</th></tr>
{{range .Rows}}
<tr>
<td>{{.StandardChunkID}}</td>
<td>{{.Coverage}}</td>
<td class="sev-{{.Severity}}">{{.Severity}}</td>
<td>{{printf "%.3f" .BestSimilarity}}</td>
<td>{{.StandardPreview}}</td>
<td>{{.Reason}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func writeGapHTML(path, standardID, manualID string, rows []domain.CoverageRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gapHTMLTemplate.Execute(f, struct {
		StandardID string
		ManualID   string
		Rows       []domain.CoverageRow
	}{
		StandardID: standardID,
		ManualID:   manualID,
		Rows:       rows,
	})
}
