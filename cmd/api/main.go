// Command api runs the CobranzaCloud backend.
//
// @title                       CobranzaCloud API
// @version                     1.0
// @description                 Multi-tenant accounts-receivable backend fed by on-premise ERP connectors.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cobranzacloud/cobranza-cloud/internal/pkg/config"
	"github.com/cobranzacloud/cobranza-cloud/pkg/logger"
)

const serviceName = "cobranza-api"

// app is filled by the root command before any subcommand runs.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "api",
		Short:         "CobranzaCloud API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.Env == "development",
				Service: serviceName,
				Env:     cfg.Env,
			})
			// Money goes over the wire as JSON numbers.
			decimal.MarshalJSONWithoutQuotes = true
			return nil
		},
	}
	root.AddCommand(newServeCmd(a), newMigrateCmd(a))
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		l := logger.Get()
		if l.GetLevel() == zerolog.Disabled {
			l = zerolog.New(os.Stderr).With().Timestamp().Logger()
		}
		l.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
