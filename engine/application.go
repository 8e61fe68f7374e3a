package engine

import (
	"github.com/Aalexdev/vk-engine/engine/config"
	"github.com/Aalexdev/vk-engine/engine/core"
)

// Only a handful of pending reloads are kept; the newest one wins anyway.
const configQueueSize = 4

// ConfigUpdates is where reloaded configurations are posted. They are applied
// between frames on the render thread.
func (e *Engine) ConfigUpdates() chan<- *config.Config {
	return e.configUpdates
}

func (e *Engine) applyPendingConfig() {
	var latest *config.Config
	for {
		select {
		case cfg := <-e.configUpdates:
			latest = cfg
		default:
			if latest != nil {
				e.applyConfig(latest)
			}
			return
		}
	}
}

/**
 * Applies the settings that can change while running. Settings baked into
 * the swapchain at startup are reported and left untouched.
 */
func (e *Engine) applyConfig(cfg *config.Config) {
	previous := e.gameInstance.Config
	app, rend := cfg.Application, cfg.Renderer

	core.SetLogLevel(app.LogLevel)
	e.targetFPS = app.TargetFPS

	if e.renderer != nil {
		e.renderer.SetClearColor(rend.ClearColor[0], rend.ClearColor[1], rend.ClearColor[2], rend.ClearColor[3])
		e.renderer.SetClearDepthStencil(rend.ClearDepth, rend.ClearStencil)
		e.renderer.SetAutoUpdateViewport(rend.AutoUpdateViewport)
	}

	if previous != nil {
		old := previous.Renderer
		if old.RefreshMode != rend.RefreshMode ||
			old.SurfaceFormat != rend.SurfaceFormat ||
			old.ColorSpace != rend.ColorSpace ||
			old.FramesInFlight != rend.FramesInFlight ||
			old.EnableDepth != rend.EnableDepth ||
			old.DiscreteGPU != rend.DiscreteGPU {
			core.LogWarn("swapchain settings changed on disk; they take effect on the next start")
		}
		if previous.Application.Name != app.Name && e.platform.Window != nil {
			e.platform.SetTitle(app.Name)
		}
	}
	e.gameInstance.Config = cfg

	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_CONFIG_RELOADED,
		Data: cfg,
	})
}
