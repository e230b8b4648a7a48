package common

import "time"

const clickMaxDist = 1

// ClickTracker counts repeated presses of the same button near the same cell.
// The count cycles 1, 2, 3, 1, ... so a fourth click starts over.
type ClickTracker struct {
	Interval time.Duration

	lastAt    time.Time
	lastX     int
	lastY     int
	lastBtn   int
	lastCount int
}

// Press records a press at (x, y) and returns the click count it completes.
func (c *ClickTracker) Press(now time.Time, x, y, button int) int {
	if c.lastCount > 0 &&
		button == c.lastBtn &&
		now.Sub(c.lastAt) <= c.Interval &&
		abs(x-c.lastX) <= clickMaxDist &&
		abs(y-c.lastY) <= clickMaxDist {
		c.lastCount = c.lastCount%3 + 1
	} else {
		c.lastCount = 1
	}
	c.lastAt = now
	c.lastX = x
	c.lastY = y
	c.lastBtn = button
	return c.lastCount
}

// Reset forgets the previous press.
func (c *ClickTracker) Reset() {
	c.lastCount = 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
