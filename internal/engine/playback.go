package engine

import "time"

// Playback timeline. On-pulse i fires at FirstPulseDelay + i*(PulseDuration+PulseGap)
// after the playback starts; its off-pulse follows PulseDuration later.
const (
	FirstPulseDelay = 1000 * time.Millisecond
	PulseDuration   = 400 * time.Millisecond
	PulseGap        = 600 * time.Millisecond

	// EchoDuration is how long a player's press stays lit.
	EchoDuration = 200 * time.Millisecond
)

// beginPlayback enters Showing and queues the first pulse of a new epoch.
func (e *Engine) beginPlayback(status string) {
	e.stopReveal()
	e.epoch++

	e.status = status
	e.setPhase(Showing)
	e.scheduleReveal(FirstPulseDelay, func() { e.pulseOn(0) })
}

// scheduleReveal queues the next playback step. Only called when no reveal
// timer is outstanding: at playback start or from the previous step.
func (e *Engine) scheduleReveal(d time.Duration, step func()) {
	epoch := e.epoch
	e.reveal = e.sched.AfterFunc(d, func() {
		if epoch != e.epoch {
			// Stopped timers never get here under a manual scheduler. A real
			// timer can fire after Stop lost the race; the step is dropped.
			e.logger.Debug("dropping step from cancelled playback", "epoch", epoch, "current", e.epoch)
			return
		}
		e.reveal = nil
		step()
	})
}

func (e *Engine) pulseOn(i int) {
	s := e.game.sequence[i]
	e.lit = s
	e.pulsing = true
	e.status = StatusWatch
	e.emit.Emit(s)
	e.record(Event{Kind: EventPulseOn, Signal: s, Index: i})

	e.scheduleReveal(PulseDuration, func() { e.pulseOff(i) })
}

func (e *Engine) pulseOff(i int) {
	s := e.game.sequence[i]
	e.lit = None
	e.pulsing = false
	e.record(Event{Kind: EventPulseOff, Signal: s, Index: i})

	if i+1 < len(e.game.sequence) {
		e.scheduleReveal(PulseGap, func() { e.pulseOn(i + 1) })
		return
	}

	e.game.progress = 0
	e.status = StatusYourTurn
	e.setPhase(AwaitingInput)
}

// flash lights a pressed signal for EchoDuration. The light is only cleared
// if nothing else has taken it in the meantime.
func (e *Engine) flash(s Signal) {
	if e.echo != nil {
		e.echo.Stop()
	}
	e.echoEpoch++
	epoch := e.echoEpoch

	e.lit = s
	e.emit.Emit(s)
	e.echo = e.sched.AfterFunc(EchoDuration, func() {
		if epoch != e.echoEpoch {
			return
		}
		e.echo = nil
		if e.lit == s && !e.pulsing {
			e.lit = None
		}
	})
}

func (e *Engine) stopReveal() {
	if e.reveal != nil {
		e.reveal.Stop()
		e.reveal = nil
	}
}

// cancelTimers stops every outstanding timer and invalidates any callback
// that may already be on its way.
func (e *Engine) cancelTimers() {
	e.stopReveal()
	e.epoch++
	e.pulsing = false

	if e.echo != nil {
		e.echo.Stop()
		e.echo = nil
	}
	e.echoEpoch++
}
