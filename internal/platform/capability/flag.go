// Package capability holds explicit, invalidatable facts about the backing
// store, such as whether a table has any rows yet. Components receive a
// *Flag instead of probing storage on their own.
package capability

import (
	"context"
	"sync"

	"github.com/riskibarqy/hoops-reconciler/internal/platform/resilience"
)

// Probe reports the current value of a capability.
type Probe func(ctx context.Context) (bool, error)

type Flag struct {
	name  string
	probe Probe

	mu    sync.RWMutex
	known bool
	value bool

	flight resilience.SingleFlight[bool]
}

func NewFlag(name string, probe Probe) *Flag {
	return &Flag{name: name, probe: probe}
}

// Static returns a flag with a fixed value and no probe.
func Static(name string, value bool) *Flag {
	return &Flag{name: name, known: true, value: value}
}

func (f *Flag) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Enabled returns the cached value, probing once when unknown. A nil flag
// is always disabled.
func (f *Flag) Enabled(ctx context.Context) (bool, error) {
	if f == nil {
		return false, nil
	}

	f.mu.RLock()
	if f.known {
		v := f.value
		f.mu.RUnlock()
		return v, nil
	}
	f.mu.RUnlock()

	if f.probe == nil {
		return false, nil
	}

	v, err, _ := f.flight.Do(f.name, func() (bool, error) {
		value, err := f.probe(ctx)
		if err != nil {
			return false, err
		}
		f.Set(value)
		return value, nil
	})
	return v, err
}

func (f *Flag) Set(value bool) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.known = true
	f.value = value
	f.mu.Unlock()
}

// Invalidate forgets the cached value; the next Enabled call probes again.
func (f *Flag) Invalidate() {
	if f == nil || f.probe == nil {
		return
	}
	f.mu.Lock()
	f.known = false
	f.mu.Unlock()
	f.flight.Forget(f.name)
}
