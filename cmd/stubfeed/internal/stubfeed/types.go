package stubfeed

import (
	"math/rand"
	"time"
)

// for deterministic testing
type Clock interface {
	Now() time.Time
}

// for deterministic values
type Rand interface {
	Float64() float64
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type RealRand struct{ *rand.Rand }

func (r RealRand) Float64() float64 { return r.Rand.Float64() }
