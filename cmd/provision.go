package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitpod-io/fossactl/pkg/fossa"
	"github.com/gitpod-io/fossactl/pkg/provision"
)

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision <team>",
	Short: "Ensures a team exists on the platform, then runs the analyzer scoped to it",
	Long: `Ensures a team exists on the platform, then runs the analyzer scoped to it.

The team is looked up by its exact name. If it does not exist it is created
with autoAddUsers disabled. Afterwards "fossa analyze --team <team>" uploads
the dependency analysis; a failing analysis fails the run. The subsequent
"fossa test" policy check is advisory only: a failure is reported as a warning
and left for a human to triage.

Note that concurrent runs provisioning the same team name can race each other
on the existence check. Serialize provisioning jobs per team name in CI.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			createOnly, _  = cmd.Flags().GetBool("create-only")
			analyzeOnly, _ = cmd.Flags().GetBool("analyze-only")
		)
		if createOnly && analyzeOnly {
			log.Fatal("--create-only and --analyze-only exclude each other")
		}

		cfg, err := getConfig()
		if err != nil {
			log.WithError(err).Fatal("invalid configuration")
		}

		var analyzer provision.Analyzer
		if !createOnly {
			analyzer, err = provision.NewCLIAnalyzer()
			if err != nil {
				log.WithError(err).Fatal("invalid configuration")
			}
		}

		var (
			ctx      = cmd.Context()
			teamName = args[0]
			p        = provision.New(fossa.NewClient(cfg.APIToken, cfg.Endpoint), analyzer)
		)

		if !analyzeOnly {
			if err := p.Provision(ctx, teamName); err != nil {
				log.WithError(err).WithField("team", teamName).Fatal("cannot provision team")
			}
		}
		if !createOnly {
			if err := p.RunAnalysis(ctx, teamName); err != nil {
				log.WithError(err).WithField("team", teamName).Fatal("analysis failed")
			}
		}
	},
}

func init() {
	provisionCmd.Flags().BoolP("create-only", "c", false, "provision the team but skip the analyzer")
	provisionCmd.Flags().BoolP("analyze-only", "a", false, "skip provisioning and only run the analyzer")

	rootCmd.AddCommand(provisionCmd)
}
