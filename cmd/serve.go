// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Emberworks

package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/gateway"
	"github.com/emberworks/cocotte/pkg/mirror"
	"github.com/emberworks/cocotte/pkg/queue"
	"github.com/emberworks/cocotte/pkg/registry"
	"github.com/emberworks/cocotte/pkg/relay"
	"github.com/emberworks/cocotte/pkg/telemetry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay server",
	Long: `Start the relay: connect to the cooker, track module levels and the
cooking queue, and serve the HTTP API.

The device link reconnects automatically; while it is down, sends fail
fast and inbound polling backs off. State snapshots are mirrored to
Redis when redis.enabled is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}

	dial, connInfo, err := dialerFromConfig(cfg)
	if err != nil {
		return err
	}

	modules := catalog.SeedModules()
	recipes := catalog.SeedRecipes()
	if err := catalog.Validate(modules, recipes); err != nil {
		return err
	}
	store := catalog.NewRecipeStore(recipes)
	reg := registry.New(modules)

	metrics := telemetry.NewMetrics()
	gw := gateway.New(dial, gateway.Config{
		BufferCap: cfg.Buffer.Capacity,
		Metrics:   metrics,
	})
	go gw.Run()
	defer gw.Close()

	orch := queue.New(gw, reg, store, queue.Config{
		TimeScale:      cfg.Cook.TimeScale,
		CompletionHold: cfg.Cook.CompletionHold,
		Metrics:        metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := gateway.NewDispatcher(gw, reg, cfg.Poll.Connected, cfg.Poll.Disconnected)
	go dispatcher.Run(ctx)

	gw.OnConnectionChange(func(up bool) {
		if up {
			log.Printf("cooker connected (%s)", connInfo)
		} else {
			log.Printf("cooker disconnected, redialing")
		}
	})
	reg.SubscribeAlerts(func(alerts []registry.Alert) {
		for _, a := range alerts {
			log.Printf("module alert: %s %s (%d/%d %s)",
				a.ModuleID, a.Status, a.CurrentLevel, a.MaxLevel, a.Unit)
		}
	})
	orch.OnItemDone(func(item queue.Item, ok bool) {
		if ok {
			log.Printf("queue item done: %s", item.Recipe.ID)
		} else {
			log.Printf("queue item failed: %s: %s", item.Recipe.ID, item.Error)
		}
	})

	if cfg.Redis.Enabled {
		rs, err := mirror.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, "cocotte:")
		if err != nil {
			log.Printf("mirror disabled: %v", err)
		} else {
			m := mirror.New(rs, time.Second)
			m.Register("modules", func() any { return reg.Modules() })
			m.Register("recipes", func() any { return store.Recipes() })
			m.Register("queue", func() any { return orch.State() })
			reg.OnChange(func([]catalog.Module) { m.Request("modules") })
			store.OnChange(func(catalog.Recipe) { m.Request("recipes") })
			orch.Subscribe(func(queue.State) { m.Request("queue") })
			defer rs.Close()
			defer m.Close()
			log.Printf("mirroring state to redis at %s", cfg.Redis.Addr)
		}
	}

	srv := relay.NewServer(gw, reg, store, orch, metrics)
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("cocotte relay listening on %s (%s)", cfg.HTTP.Addr, connInfo)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	orch.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
