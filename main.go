/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aalexdev/vk-engine/engine"
	"github.com/Aalexdev/vk-engine/engine/config"
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/testbed"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "engine.toml", "path to the engine configuration file")
	debug := flag.Bool("debug", false, "enable the Vulkan validation layer and debug logging")
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		core.LogError("%+v", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	cfg, watch, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Application.Debug = true
		cfg.Application.LogLevel = core.LogLevelDebug
	}

	e, err := engine.New(testbed.NewTestGame(cfg).Game)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return errors.CombineErrors(err, e.Shutdown())
	}

	// signal context to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(gctx)
	if watch {
		updates := e.ConfigUpdates()
		g.Go(func() error {
			return config.Watch(runCtx, configPath, func(c *config.Config) {
				select {
				case updates <- c:
				case <-runCtx.Done():
				default:
					core.LogWarn("config reload dropped, the engine is not keeping up")
				}
			})
		})
	}

	// The frame loop stays on the main goroutine; glfw requires it.
	runErr := e.Run(runCtx)
	cancelRun()

	return errors.CombineErrors(runErr, errors.CombineErrors(g.Wait(), e.Shutdown()))
}

// loadConfig reads path if it exists. A missing file means defaults and no watching.
func loadConfig(path string) (*config.Config, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			core.LogWarn("config %s not found, using defaults", path)
			return config.Default(), false, nil
		}
		return nil, false, errors.Wrapf(err, "failed to stat config %s", path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
