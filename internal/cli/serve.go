package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitgrid/internal/api"
	"github.com/julianstephens/habitgrid/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Listen address, overriding server.addr." placeholder:"HOST:PORT"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	runCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting habitgrid server",
		"addr", cfg.Addr,
		"storage", ctx.Store.GetConfigPath(),
		"timezone", ctx.Service.Location().String(),
		"rate_limit", cfg.RateLimitEnabled)

	srv := api.NewServer(cfg, api.NewRouter(ctx.Service, cfg))
	return srv.Run(runCtx)
}
