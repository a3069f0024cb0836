// Package engine implements the deterministic game-state transitions: ship
// generation, stat derivation, combat resolution and progression. Every
// exported function takes a snapshot by value and returns a new one.
package engine

import (
	"github.com/google/uuid"

	"stardust/internal/config"
	"stardust/internal/defs"
)

// Rand is the randomness source for crit rolls and auto-buy selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type Engine struct {
	cfg   config.Config
	reg   *defs.Registry
	newID func() string
}

type Option func(*Engine)

// WithIDGenerator replaces the ship identity source.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

func New(cfg config.Config, reg *defs.Registry, opts ...Option) *Engine {
	e := &Engine{
		cfg:   cfg,
		reg:   reg,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() config.Config {
	return e.cfg
}

func (e *Engine) Registry() *defs.Registry {
	return e.reg
}
