package engine

import (
	"github.com/Aalexdev/vk-engine/engine/config"
	"github.com/Aalexdev/vk-engine/engine/renderer"
)

type Game struct {
	Config       *config.Config
	State        interface{}
	FnBoot       Boot
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Boot func() error
type Initialize func(r *renderer.Renderer) error
type Update func(deltaTime float64) error

// Render records the frame into cb. The render pass is already begun.
type Render func(cb *renderer.CommandBuffer, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
