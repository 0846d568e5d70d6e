package latebind

import "sync/atomic"

const (
	// Unresolved is the initial value of every Cell.
	Unresolved uintptr = 0
	// Absent marks a Cell whose resolution was attempted and failed.
	Absent = ^uintptr(0)
)

// Cell is a single word slot shared by any number of goroutines.
//
// The zero Cell holds Unresolved. A Cell is only ever written by CompareAndSwap, so once a
// goroutine observes a value other than Unresolved that value never changes.
type Cell struct {
	v atomic.Uintptr
}

// Read the current value.
func (c *Cell) Read() uintptr {
	return c.v.Load()
}

// CompareAndSwap stores desired only when the Cell holds expected.
// previous is the value observed by the attempt: expected on success, the competing value otherwise.
func (c *Cell) CompareAndSwap(expected, desired uintptr) (swapped bool, previous uintptr) {
	for {
		if c.v.CompareAndSwap(expected, desired) {
			return true, expected
		}
		if previous = c.v.Load(); previous != expected {
			return false, previous
		}
	}
}

// ReadIfPresent is a compare-and-swap of Unresolved against itself, it never changes the Cell.
func (c *Cell) ReadIfPresent() uintptr {
	_, v := c.CompareAndSwap(Unresolved, Unresolved)
	return v
}
