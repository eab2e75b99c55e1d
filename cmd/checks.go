package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/khanhnv2901/wpinspect/internal/checker"
	"github.com/khanhnv2901/wpinspect/internal/report"
	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

var checksFormat string

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the checks run by the audit",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(checksFormat)
		if err != nil {
			return err
		}

		catalog := checker.Catalog()
		out := cmd.OutOrStdout()

		switch format {
		case report.FormatJSON:
			data, err := json.MarshalIndent(catalog, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode catalog: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		case report.FormatYAML:
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(catalog); err != nil {
				return fmt.Errorf("failed to encode catalog: %w", err)
			}
			return enc.Close()
		case report.FormatText:
		default:
			return fmt.Errorf("%w: %q is not available for checks", sharederrors.ErrUnsupportedFormat, format)
		}

		tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tCHECK\tSOURCE\tDESCRIPTION")
		for _, spec := range catalog {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", spec.Category, spec.Title, spec.Source, spec.Description)
		}
		return tw.Flush()
	},
}

func init() {
	checksCmd.Flags().StringVarP(&checksFormat, "format", "f", defaultFormat, "output format: text, json, yaml")
}
