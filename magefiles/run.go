//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with engine.toml, or the file named by VK_ENGINE_CONFIG.
func (Run) Engine() error {
	mg.Deps(Build.Engine)

	configPath := os.Getenv("VK_ENGINE_CONFIG")
	if configPath == "" {
		configPath = "engine.toml"
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("bin/vk-engine", withArgs("-config", configPath), withStream()); err != nil {
		return err
	}
	return nil
}

// Same as Engine with the Vulkan validation layer and debug logging turned on.
func (Run) Debug() error {
	mg.Deps(Build.Engine)

	fmt.Println("Run engine with validation...")
	if _, err := executeCmd("bin/vk-engine", withArgs("-debug"), withStream()); err != nil {
		return err
	}
	return nil
}
