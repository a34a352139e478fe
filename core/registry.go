package core

import (
	"fmt"
	"sort"
	"sync"
)

var registry = struct {
	mtx          *sync.Mutex
	constructors map[string]EnvironmentConstructor
}{
	mtx:          &sync.Mutex{},
	constructors: make(map[string]EnvironmentConstructor),
}

// Register makes an environment available to Make under id.
// Registering the same id twice panics.
func Register(id string, c EnvironmentConstructor) {
	registry.mtx.Lock()
	defer registry.mtx.Unlock()
	if _, ok := registry.constructors[id]; ok {
		panic(fmt.Sprintf("environment %q already registered", id))
	}
	registry.constructors[id] = c
}

func Lookup(id string) (EnvironmentConstructor, error) {
	registry.mtx.Lock()
	defer registry.mtx.Unlock()
	c, ok := registry.constructors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnvironment, id)
	}
	return c, nil
}

// Registered returns the sorted ids of all registered environments
func Registered() []string {
	registry.mtx.Lock()
	defer registry.mtx.Unlock()
	out := make([]string, 0, len(registry.constructors))
	for id := range registry.constructors {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Make creates the environment registered under id, rendering in mode.
func Make(id string, mode RenderMode) (Environment, error) {
	c, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return construct(id, c, mode)
}

func construct(id string, c EnvironmentConstructor, mode RenderMode) (Environment, error) {
	if !SupportsRenderMode(c, mode) {
		return nil, fmt.Errorf("%w: %s does not render in %q", ErrUnsupportedRenderMode, id, mode)
	}
	env, err := c.NewEnvironment(mode)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", id, err)
	}
	return env, nil
}

// SupportsRenderMode reports whether c declares mode. RenderNone is always supported.
func SupportsRenderMode(c EnvironmentConstructor, mode RenderMode) bool {
	if mode == RenderNone || mode == "" {
		return true
	}
	for _, m := range c.RenderModes() {
		if m == mode {
			return true
		}
	}
	return false
}
