package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
	"github.com/runnerr0/grass/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, addr, err := c.build(s)
	if err != nil {
		return err
	}
	fmt.Printf("Serving running grass on http://%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

// build wires the HTTP server from the session's config.
func (c *ServeCommand) build(s *session) (*server.Server, string, error) {
	host := s.cfg.Server.Host
	if c.Host != "" {
		host = c.Host
	}
	port := s.cfg.Server.Port
	if c.Port != 0 {
		port = c.Port
	}

	recorder := notify.NewRecorder(notify.NewLog(s.logger))
	exporter, err := newExporter(s.cfg, s.logger, recorder)
	if err != nil {
		return nil, "", err
	}

	srv := server.New(server.Options{
		Store:      s.store,
		Aggregator: s.agg,
		Rasterizer: newRasterizer(s.cfg, s.logger),
		Exporter:   exporter,
		Recorder:   recorder,
		Render:     render.OptionsFor(s.cfg.Display.Theme, s.cfg.Share.Scale, s.cfg.Share.CrossOrigin),
		Filename:   s.cfg.Share.Filename,
		Logger:     s.logger,
	})
	return srv, net.JoinHostPort(host, strconv.Itoa(port)), nil
}
