package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/cli/config"
	httpctrl "github.com/ward-lab/themis/pkg/controller/http"
	"github.com/ward-lab/themis/pkg/usecase"
	"github.com/ward-lab/themis/pkg/utils/logging"
	"github.com/ward-lab/themis/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var draftsCfg config.Drafts
	var slackCfg config.Slack
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, draftsCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the decision review server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			drafts, err := draftsCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if closer, ok := drafts.(io.Closer); ok {
				defer safe.Close(ctx, closer)
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			catalog, err := catalogCfg.Configure()
			if err != nil {
				return err
			}

			uc := usecase.New(repo,
				usecase.WithDraftStore(drafts),
				usecase.WithNotifier(notifier),
			)
			defer uc.Close()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithCatalog(catalog)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)
			eg.Go(func() error {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to serve HTTP")
				}
				return nil
			})
			eg.Go(func() error {
				<-egCtx.Done()
				logger.Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			return eg.Wait()
		},
	}
}
