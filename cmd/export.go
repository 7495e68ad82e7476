package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/pomo/internal/domain"
)

var (
	exportFormat string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history",
	Long:  "Export completed focus sessions in JSON, YAML or CSV format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.stats.History(context.Background(), sinceDays(time.Now(), exportDays))
		if err != nil {
			return fmt.Errorf("failed to fetch sessions: %w", err)
		}
		return writeExport(cmd.OutOrStdout(), exportFormat, records)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, yaml, or csv")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Number of days to include (0 for all)")
}

// exportRow is one exported session. Field names follow the stored form.
type exportRow struct {
	Duration   int    `json:"duration" yaml:"duration"`
	FinishedAt string `json:"finishedAt" yaml:"finishedAt"`
}

func toExportRows(records []domain.CompletedRecord) []exportRow {
	rows := make([]exportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, exportRow{Duration: r.Duration, FinishedAt: domain.FormatDateTime(r.FinishedAt)})
	}
	return rows
}

func writeExport(w io.Writer, format string, records []domain.CompletedRecord) error {
	rows := toExportRows(records)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"date", "finished_at", "duration_min"})
		for i, r := range rows {
			_ = cw.Write([]string{records[i].Day(), r.FinishedAt, strconv.Itoa(r.Duration)})
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown export format %q (want json, yaml, or csv)", format)
	}
}
