package viewsync

import (
	"time"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
)

// throttle вызывает fn не чаще раза в interval.
// Первое событие обрабатывается сразу, после последнего события серии fn вызывается еще раз.
// trigger и stop вызываются в цикле отображения.
type throttle struct {
	interval time.Duration
	sched    eventloop.Scheduler
	fn       func()

	timer   *time.Timer
	pending bool
	stopped bool
}

func newThrottle(interval time.Duration, sched eventloop.Scheduler, fn func()) *throttle {
	return &throttle{interval: interval, sched: sched, fn: fn}
}

func (t *throttle) trigger() {
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.pending = true
		return
	}
	t.fn()
	t.timer = time.AfterFunc(t.interval, t.expire)
}

func (t *throttle) expire() {
	t.sched.Post(func() {
		if t.stopped {
			return
		}
		t.timer = nil
		if !t.pending {
			return
		}
		t.pending = false
		t.fn()
		t.timer = time.AfterFunc(t.interval, t.expire)
	})
}

func (t *throttle) stop() {
	t.stopped = true
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
