package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Aalexdev/vk-engine/engine/config"
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/platform"
	"github.com/Aalexdev/vk-engine/engine/renderer"
	"github.com/Aalexdev/vk-engine/engine/renderer/vulkan"
	"github.com/cockroachdb/errors"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	context      *vulkan.VulkanContext
	renderer     *renderer.Renderer
	width        uint32
	height       uint32
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64
	targetFPS    uint32

	configUpdates chan *config.Config
}

func New(g *Game) (*Engine, error) {
	if g.Config == nil {
		g.Config = config.Default()
	}
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}
	p, err := platform.New()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		platform:      p,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		isRunning:     true,
		width:         g.Config.Application.Width,
		height:        g.Config.Application.Height,
		targetFPS:     g.Config.Application.TargetFPS,
		configUpdates: make(chan *config.Config, configQueueSize),
	}

	e.currentStage = EngineStageBooting
	if g.FnBoot != nil {
		if err := g.FnBoot(); err != nil {
			return nil, errors.Wrap(err, "game boot failed")
		}
	}
	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return errors.AssertionFailedf("engine initialized twice")
	}
	e.currentStage = EngineStageInitializing

	app := e.gameInstance.Config.Application
	core.SetLogLevel(app.LogLevel)

	// initialize events
	if !core.EventSystemInitialize() {
		return errors.New("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_SWAPCHAIN_RECREATED, e.onSwapchainRecreated)

	if err := e.platform.Startup(app.Name, app.PosX, app.PosY, app.Width, app.Height); err != nil {
		return err
	}

	ctx, err := vulkan.NewContext(e.platform, vulkan.Options{
		ApplicationName: app.Name,
		Debug:           app.Debug,
		DiscreteGPU:     e.gameInstance.Config.Renderer.DiscreteGPU,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create the Vulkan context")
	}
	e.context = ctx

	r, err := renderer.NewRenderer(ctx, e.platform, ctx.Device.GraphicsCommandPool, e.gameInstance.Config.RendererConfig())
	if err != nil {
		return errors.Wrap(err, "failed to create the renderer")
	}
	e.renderer = r

	extent := r.Swapchain().Extent()
	e.width, e.height = extent.Width, extent.Height

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(r); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until the window closes, a quit event fires or
// ctx is done. It must be called from the main goroutine.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return errors.AssertionFailedf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var titleTime float64

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("context done, shutting down.")
			e.isRunning = false
			continue
		default:
		}

		if !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}
		e.applyPendingConfig()

		if e.isSuspended {
			// Nothing to present to while minimized.
			e.platform.WaitEvents()
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := core.AbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down.")
				return errors.Wrap(err, "game update failed")
			}
		}

		if err := e.drawFrame(delta); err != nil {
			core.LogError("Frame failed, shutting down.")
			return err
		}

		// Figure out how long the frame took and, if below the target, give the rest back.
		frameElapsedTime := core.AbsoluteTime() - frameStartTime
		if e.targetFPS > 0 {
			remaining := 1.0/float64(e.targetFPS) - frameElapsedTime
			if remaining > 0 {
				time.Sleep(time.Duration(remaining * float64(time.Second)))
			}
		}
		e.metrics.Update(core.AbsoluteTime() - frameStartTime)

		if currentTime-titleTime >= 1.0 {
			titleTime = currentTime
			fps, frameTime := e.metrics.Frame()
			e.platform.SetTitle(fmt.Sprintf("%s - %.0f fps (%.2f ms)", e.gameInstance.Config.Application.Name, fps, frameTime))
		}

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

func (e *Engine) drawFrame(delta float64) error {
	cb, err := e.renderer.BeginFrame()
	if err != nil {
		return errors.Wrap(err, "begin frame")
	}
	if cb == nil {
		// The swapchain was rebuilt; skip this frame.
		return nil
	}
	if err := e.renderer.BeginRenderPass(cb); err != nil {
		return errors.Wrap(err, "begin render pass")
	}
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(cb, delta); err != nil {
			return errors.Wrap(err, "game render failed")
		}
	}
	if err := e.renderer.EndRenderPass(cb); err != nil {
		return errors.Wrap(err, "end render pass")
	}
	if err := e.renderer.EndFrame(); err != nil {
		return errors.Wrap(err, "end frame")
	}
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var shutdownErr error
	if e.gameInstance.FnShutdown != nil {
		shutdownErr = errors.CombineErrors(shutdownErr, e.gameInstance.FnShutdown())
	}
	if e.renderer != nil {
		e.renderer.Destroy()
		e.renderer = nil
	}
	if e.context != nil {
		e.context.Destroy()
		e.context = nil
	}
	shutdownErr = errors.CombineErrors(shutdownErr, core.EventSystemShutdown())
	shutdownErr = errors.CombineErrors(shutdownErr, e.platform.Shutdown())
	return shutdownErr
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	// Handle minimization
	if se.WindowWidth == 0 || se.WindowHeight == 0 {
		if !e.isSuspended {
			core.LogInfo("Window minimized, suspending application.")
			e.isSuspended = true
		}
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	// The swapchain follows on the next frame; the game hears about it then.
	return false
}

func (e *Engine) onSwapchainRecreated(context core.EventContext) bool {
	se, ok := context.Data.(*core.SwapchainEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if se.Width == e.width && se.Height == e.height {
		return false
	}
	e.width, e.height = se.Width, se.Height
	core.LogDebug("Swapchain resized: %d, %d", se.Width, se.Height)

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(se.Width, se.Height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
