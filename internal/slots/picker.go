package slots

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Picker draws a uniform integer in [0, n). n is always > 0.
type Picker interface {
	IntN(n int) int
}

type lockedPicker struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewPicker returns a goroutine-safe Picker. A zero seed seeds from the clock.
func NewPicker(seed uint64) Picker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedPicker{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *lockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}
