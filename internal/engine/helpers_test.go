package engine

import (
	"fmt"
	"testing"

	"stardust/internal/config"
	"stardust/internal/defs"
)

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) IntN(n int) int { return r.n % n }

var noCrit = fixedRand{f: 0.999}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	seq := 0
	return New(config.Default(), defs.Default(), WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("ship-%d", seq)
	}))
}

func ptr(s string) *string { return &s }
