package cmd

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/gitpod-io/fossactl/pkg/fossa"
	"github.com/gitpod-io/fossactl/pkg/prettyprint"
	"github.com/gitpod-io/fossactl/pkg/telemetry"
)

// exportIgnoreRulesCmd represents the export ignore-rules command
var exportIgnoreRulesCmd = &cobra.Command{
	Use:   "ignore-rules <api-token>",
	Short: "Exports all ignore rules (issue exceptions) of an organization",
	Long: `Exports all ignore rules (issue exceptions) of an organization.

Rules are fetched page by page until the platform runs out of records. Records
are passed through as the platform reports them; fossactl imposes no schema on
them. The CSV format flattens each record, its header row is the sorted union
of all record keys.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			categoryStr, _  = cmd.Flags().GetString("category")
			count, _        = cmd.Flags().GetInt("count")
			format, _       = cmd.Flags().GetString("format")
			formatString, _ = cmd.Flags().GetString("format-string")
			outputFile, _   = cmd.Flags().GetString("output")
		)

		category, err := fossa.ParseIgnoreRuleCategory(categoryStr)
		if err != nil {
			log.WithError(err).Fatal("invalid configuration")
		}

		out := io.Writer(os.Stdout)
		if outputFile != "" && outputFile != "-" {
			f, err := os.Create(outputFile)
			if err != nil {
				log.WithError(err).Fatal("cannot create output file")
			}
			defer f.Close()
			out = f
		}

		client := fossa.NewClient(args[0], os.Getenv(EnvvarEndpoint))
		w := &prettyprint.Writer{
			Out:          out,
			Format:       prettyprint.Format(format),
			FormatString: formatString,
		}
		if err := exportIgnoreRules(cmd.Context(), client, w, category, count); err != nil {
			log.WithError(err).Fatal("cannot export ignore rules")
		}
	},
}

func exportIgnoreRules(ctx context.Context, client *fossa.Client, w *prettyprint.Writer, category fossa.IgnoreRuleCategory, count int) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "export-ignore-rules")
	defer telemetry.FinishSpan(span, &err)

	rules, err := client.ListIgnoreRules(ctx, category, count)
	if err != nil {
		return err
	}

	if err := w.Write(rules); err != nil {
		return xerrors.Errorf("cannot write ignore rules: %w", err)
	}

	log.WithField("rules", len(rules)).WithField("category", category).Info("export complete")
	return nil
}

func init() {
	exportIgnoreRulesCmd.Flags().String("category", string(fossa.CategoryLicensing), "rule category to export [licensing, security]")
	exportIgnoreRulesCmd.Flags().Int("count", 1000, "number of records to request per page")
	exportIgnoreRulesCmd.Flags().StringP("format", "f", string(prettyprint.JSONFormat), "output format [json, csv, yaml, template]")
	exportIgnoreRulesCmd.Flags().String("format-string", "", "format string for template format")
	exportIgnoreRulesCmd.Flags().StringP("output", "o", "", "write output to this file instead of stdout")

	exportCmd.AddCommand(exportIgnoreRulesCmd)
}
