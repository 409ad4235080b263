// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package avpipe

import "sync"

// CommandPool is a mutex-guarded free list of *Command, amortizing
// allocation across a pipeline's steady-state traffic. Acquire pulls from
// the free list or allocates a new Command when the list is empty and the
// pool has not reached maxSize (0 = unbounded growth).
type CommandPool struct {
	mu       sync.Mutex
	free     *Command
	freeLen  int
	total    int
	maxSize  int
}

// NewCommandPool creates a pool pre-populated with initial free Commands.
// maxSize caps how many Commands the pool will ever hold at once; 0 means
// unbounded (Acquire always allocates when the free list is empty).
func NewCommandPool(initial, maxSize int) *CommandPool {
	p := &CommandPool{maxSize: maxSize}
	for i := 0; i < initial; i++ {
		c := &Command{pool: p}
		c.poolNext = p.free
		p.free = c
		p.freeLen++
		p.total++
	}
	return p
}

// Acquire returns a Command reset to an empty (type=None, no payload) state
// with refcount set to 1, either reused from the free list or freshly
// allocated. Returns nil if the pool is at maxSize and the free list is
// empty.
func (p *CommandPool) Acquire() *Command {
	p.mu.Lock()
	if p.free != nil {
		c := p.free
		p.free = c.poolNext
		c.poolNext = nil
		p.freeLen--
		p.mu.Unlock()
		c.Init(CommandNone)
		c.refcount.Store(1)
		return c
	}
	if p.maxSize > 0 && p.total >= p.maxSize {
		p.mu.Unlock()
		return nil
	}
	p.total++
	p.mu.Unlock()
	c := &Command{pool: p}
	c.refcount.Store(1)
	return c
}

// put returns c to the free list. Called only by Command.Release once its
// refcount reaches zero.
func (p *CommandPool) put(c *Command) {
	p.mu.Lock()
	c.poolNext = p.free
	p.free = c
	p.freeLen++
	p.mu.Unlock()
}

// TotalCount returns the number of Commands this pool has ever allocated
// (in use plus free).
func (p *CommandPool) TotalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// FreeCount returns the number of Commands currently on the free list.
func (p *CommandPool) FreeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freeLen
}
