// Package main provides a CLI that writes batches of table exports to disk.
package main

import (
	"fmt"
	"os"

	exportcmd "github.com/goliatone/go-excel-response/command"
	"github.com/goliatone/go-excel-response/export"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "excel-response",
		Short: "Render tables to XLSX or CSV files",
	}
	rootCmd.AddCommand(newWriteCmd())
	return rootCmd
}

func newWriteCmd() *cobra.Command {
	var (
		from       string
		outputDir  string
		maxRows    int
		maxColumns int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "write --from batch.json --out DIR",
		Short: "Write every export listed in a JSON batch file",
		Long: `Reads a JSON list of {"filename", "sheet_name", "force_csv", "data"} items
and writes one XLSX or CSV file per item. Items that exceed the row or column
limits are written as CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serializer := export.NewSerializer()
			serializer.Limits = export.Limits{MaxRows: maxRows, MaxColumns: maxColumns}
			if verbose {
				serializer.Logger = writerLogger{cmd: cmd}
			}

			var records []export.ExportRecord
			batch := exportcmd.NewWriteExportsCommand(serializer, nil, outputDir)
			err := batch.Execute(cmd.Context(), exportcmd.WriteExports{
				From:      from,
				OutputDir: outputDir,
				Result:    &records,
			})
			for _, record := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d rows\t%d bytes\n", record.Filename, record.Format, record.Rows, record.Bytes)
			}
			if err != nil {
				return fmt.Errorf("write exports: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Path to the JSON batch file")
	cmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Directory the exports are written to")
	cmd.Flags().IntVar(&maxRows, "max-rows", export.DefaultRowLimit, "Row limit before falling back to CSV")
	cmd.Flags().IntVar(&maxColumns, "max-columns", export.DefaultColumnLimit, "Column limit before falling back to CSV")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log serializer decisions")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

type writerLogger struct {
	cmd *cobra.Command
}

func (l writerLogger) Debugf(format string, args ...any) {
	fmt.Fprintf(l.cmd.ErrOrStderr(), "debug: "+format+"\n", args...)
}

func (l writerLogger) Infof(format string, args ...any) {
	fmt.Fprintf(l.cmd.ErrOrStderr(), "info: "+format+"\n", args...)
}

func (l writerLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.cmd.ErrOrStderr(), "error: "+format+"\n", args...)
}
