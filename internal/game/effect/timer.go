package effect

// TimerMode controls what happens when a timer completes.
type TimerMode uint8

const (
	// TimerOnce stops at its duration and stays finished until Reset.
	TimerOnce TimerMode = iota
	// TimerRepeating wraps around and keeps firing every period.
	TimerRepeating
)

// Timer is a frame-delta driven countdown (seconds).
//
// Tick fires at most once per call even if dt spans several periods:
// stack regen and damage ticks are discrete per-frame events.
type Timer struct {
	duration     float32
	elapsed      float32
	mode         TimerMode
	finished     bool
	justFinished bool
}

// NewTimer creates a timer with the given period in seconds.
func NewTimer(duration float32, mode TimerMode) Timer {
	if duration < 0 {
		duration = 0
	}
	return Timer{duration: duration, mode: mode}
}

// Tick advances the timer by dt and returns true if it completed during this call.
func (t *Timer) Tick(dt float32) bool {
	t.justFinished = false
	if t.mode == TimerOnce && t.finished {
		return false
	}
	if dt > 0 {
		t.elapsed += dt
	}
	if t.elapsed < t.duration {
		if t.mode == TimerRepeating {
			t.finished = false
		}
		return false
	}

	t.justFinished = true
	t.finished = true
	if t.mode == TimerRepeating {
		if t.duration > 0 {
			for t.elapsed >= t.duration {
				t.elapsed -= t.duration
			}
		} else {
			t.elapsed = 0
		}
	} else {
		t.elapsed = t.duration
	}
	return true
}

// Reset rewinds the timer to zero elapsed time.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.justFinished = false
}

// Finished reports whether the timer has completed (repeating: completed on the last tick).
func (t *Timer) Finished() bool { return t.finished }

// JustFinished reports whether the last Tick completed the timer.
func (t *Timer) JustFinished() bool { return t.justFinished }

// Elapsed returns the time accumulated in the current period.
func (t *Timer) Elapsed() float32 { return t.elapsed }

// Duration returns the timer period.
func (t *Timer) Duration() float32 { return t.duration }

// Remaining returns time left until the next completion.
func (t *Timer) Remaining() float32 {
	return max(0, t.duration-t.elapsed)
}
