package testbed

import (
	stdmath "math"

	"github.com/Aalexdev/vk-engine/engine"
	"github.com/Aalexdev/vk-engine/engine/config"
	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/Aalexdev/vk-engine/engine/math"
	"github.com/Aalexdev/vk-engine/engine/renderer"
	"github.com/cockroachdb/errors"
)

// Seconds for one full pulse of the clear color.
const pulsePeriod = 4.0

type TestGame struct {
	*engine.Game
}

type gameState struct {
	renderer *renderer.Renderer

	// Clear color from the config, before pulsing.
	baseColor [4]float32
	elapsed   float64

	width  uint32
	height uint32

	configListener uint32
}

func NewTestGame(cfg *config.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State:  &gameState{},
		},
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")
	if g.Config == nil {
		return errors.New("testbed needs a configuration")
	}
	state := g.State.(*gameState)
	state.baseColor = g.Config.Renderer.ClearColor
	return nil
}

func (g *TestGame) Initialize(r *renderer.Renderer) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	state.renderer = r
	state.configListener = core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, g.onConfigReloaded)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	// The render pass of this frame has not begun yet, so the new color applies now.
	c := pulse(state.baseColor, state.elapsed)
	state.renderer.SetClearColor(c[0], c[1], c[2], c[3])
	return nil
}

func (g *TestGame) Render(cb *renderer.CommandBuffer, deltaTime float64) error {
	// Clearing is all the testbed draws; the render pass does it on begin.
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if state.configListener != 0 {
		core.EventUnregister(core.EVENT_CODE_CONFIG_RELOADED, state.configListener)
		state.configListener = 0
	}
	core.LogInfo("testbed shut down")
	return nil
}

func (g *TestGame) onConfigReloaded(context core.EventContext) bool {
	cfg, ok := context.Data.(*config.Config)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	g.State.(*gameState).baseColor = cfg.Renderer.ClearColor
	return false
}

// pulse scales the rgb channels of base between half and full brightness.
func pulse(base [4]float32, elapsed float64) [4]float32 {
	phase := stdmath.Sin(2 * stdmath.Pi * elapsed / pulsePeriod)
	scale := float32(0.75 + 0.25*phase)
	return [4]float32{
		math.Clamp(base[0]*scale, 0, 1),
		math.Clamp(base[1]*scale, 0, 1),
		math.Clamp(base[2]*scale, 0, 1),
		base[3],
	}
}
