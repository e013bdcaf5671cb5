package runtime

// Clock schedules ticks. Stop must return only once no tick is running and
// none will start until the next Start.
type Clock interface {
	Start(tick func())
	Stop()
}

// ManualClock ticks only when advanced. Tests and frame-driven views use it.
type ManualClock struct {
	tick func()
}

func NewManualClock() *ManualClock { return &ManualClock{} }

func (c *ManualClock) Start(tick func()) { c.tick = tick }
func (c *ManualClock) Stop()             { c.tick = nil }
func (c *ManualClock) Running() bool     { return c.tick != nil }

// Advance runs up to n ticks and returns how many ran. It stops early when
// a tick stops the clock.
func (c *ManualClock) Advance(n int) int {
	ran := 0
	for ran < n && c.tick != nil {
		c.tick()
		ran++
	}
	return ran
}
