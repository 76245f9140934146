package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/gitpod-io/fossactl/pkg/fossa"
	"github.com/gitpod-io/fossactl/pkg/telemetry"
)

const (
	// EnvvarAPIToken names the environment variable we check for the FOSSA API token
	EnvvarAPIToken = "FOSSA_API_KEY"

	// EnvvarEndpoint names the environment variable which overrides the FOSSA endpoint.
	// When unset, the SaaS endpoint is used.
	EnvvarEndpoint = "FOSSA_ENDPOINT"

	// EnvvarOTLPEndpoint enables tracing when set to an OTLP HTTP collector endpoint
	EnvvarOTLPEndpoint = "FOSSACTL_OTLP_ENDPOINT"
)

var (
	// version is set during the build using ldflags
	version string = "unknown"

	verbose bool
)

// Config carries everything the commands need to talk to the platform.
// It is built once from the environment and passed on from there.
type Config struct {
	APIToken string
	Endpoint string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fossactl",
	Short: "CI helpers for the FOSSA platform",
	Long: color.Render(`<light_yellow>fossactl wraps the FOSSA platform for use in CI pipelines.</> It provisions teams
idempotently, delegates the actual dependency analysis to the fossa CLI, and
exports ignore rules for auditing.

<white>Configuration</>
fossactl is configured through environment variables:
           <light_blue>FOSSA_API_KEY</>  The API token used for all platform calls. Required for provisioning.
          <light_blue>FOSSA_ENDPOINT</>  The platform endpoint. Defaults to https://app.fossa.com.
  <light_blue>FOSSACTL_OTLP_ENDPOINT</>  When set, traces of all operations are sent to this OTLP HTTP collector.
`),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx := context.Background()

	telemetry.SetVersion(version)
	if err := telemetry.Initialize(ctx, os.Getenv(EnvvarOTLPEndpoint), false); err != nil {
		log.WithError(err).Warn("cannot initialize tracing")
	}
	defer func() {
		if err := telemetry.Shutdown(ctx); err != nil {
			log.WithError(err).Debug("cannot shut down tracing")
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enables verbose logging")
}

// getConfig builds the platform configuration from the environment.
// A missing API token is a configuration error: it must surface before
// any network activity happens.
func getConfig() (Config, error) {
	token := os.Getenv(EnvvarAPIToken)
	if token == "" {
		return Config{}, xerrors.Errorf("%s is not set", EnvvarAPIToken)
	}

	endpoint := os.Getenv(EnvvarEndpoint)
	if endpoint == "" {
		endpoint = fossa.DefaultEndpoint
	}

	return Config{APIToken: token, Endpoint: endpoint}, nil
}
