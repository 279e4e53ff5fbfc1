package main

import (
	"context"
	"fmt"
	"log"

	container "github.com/trezcool/eduhelp/apps/web/di"
	echoweb "github.com/trezcool/eduhelp/apps/web/echo"
	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/payment"
	logsvc "github.com/trezcool/eduhelp/services/logger"
)

func main() {
	c, err := container.New(core.NewConfig())
	must(err)

	must(c.Invoke(func(
		conf *core.Config,
		rl *logsvc.RollbarLogger,
		logger core.Logger,
		processor *payment.Processor,
		server echoweb.Server,
	) {
		defer rl.Sync()
		defer processor.Close()

		// =========================================================================
		// Initialize App

		logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
		defer logger.Info("Application stopped")

		// =========================================================================
		// Start Web Service

		go func() {
			server.Start()
		}()
		logger.Info(fmt.Sprintf("Listening on %s", conf.Server.Address))

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shutdown and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
