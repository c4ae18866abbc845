package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"eda-backend/internal/service"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Generate the cleaned CSV, PDF and summary for a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		reports := service.NewReportService(filepath.Join(reportOut, "uploads"), reportOut, logger)
		res, err := reports.Generate(cmd.Context(), service.Upload{Name: filepath.Base(args[0]), Body: f})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "report %s\n", res.ID)
		fmt.Fprintf(out, "  numeric columns: %v\n", res.Clean.NumericColumns)
		fmt.Fprintf(out, "  images:          %d\n", len(res.Images))
		fmt.Fprintf(out, "  pdf:             %s\n", res.Paths.PDF)
		fmt.Fprintf(out, "  csv:             %s\n", res.Paths.CSV)
		fmt.Fprintf(out, "  summary:         %s\n", res.Paths.Summary)
		for _, w := range res.Clean.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "out", "output directory")
	rootCmd.AddCommand(reportCmd, configCmd)
}
