//go:build !tinygo

package hal

import "time"

// hostClock turns the wall time elapsed between runner frames into ticks of
// a fixed period. Ticks nobody drains are counted and discarded.
type hostClock struct {
	ticks  chan uint64
	period time.Duration
	now    func() time.Time

	seq     uint64
	dropped uint64
	prev    time.Time
	carry   time.Duration
}

func newHostClock(period time.Duration) *hostClock {
	if period <= 0 {
		period = time.Millisecond
	}
	return &hostClock{ticks: make(chan uint64, 1024), period: period, now: time.Now}
}

func (c *hostClock) Ticks() <-chan uint64 { return c.ticks }

// advance emits one tick on the first frame, then one per elapsed period.
func (c *hostClock) advance() {
	now := c.now()
	if c.prev.IsZero() {
		c.prev = now
		c.emit(1)
		return
	}
	c.carry += now.Sub(c.prev)
	c.prev = now
	n := c.carry / c.period
	c.carry -= n * c.period
	c.emit(uint64(n))
}

func (c *hostClock) emit(n uint64) {
	for ; n > 0; n-- {
		c.seq++
		select {
		case c.ticks <- c.seq:
		default:
			c.dropped++
		}
	}
}
