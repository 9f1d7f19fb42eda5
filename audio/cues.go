// Package audio renders fight events as short synthesized cues
// Every cue is optional; a player whose speaker failed to open stays silent
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/arena/parameter"
)

// Cue identifies one of the synthesized sounds
type Cue int

const (
	CueHit Cue = iota
	CueElimination
	CueWinner
)

// Build returns a fresh streamer for c at the given rate and gain
func (c Cue) Build(rate beep.SampleRate, gain float64, seed uint64) beep.Streamer {
	switch c {
	case CueHit:
		return newVolume(tone(parameter.HitCueFreq, parameter.HitCueDuration,
			parameter.HitCueAttack, parameter.HitCueRelease, WaveSine, rate), gain*0.5)
	case CueElimination:
		d := parameter.EliminationCueDuration
		noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate, seed), d,
			parameter.EliminationCueAttack, parameter.EliminationCueRelease, rate)
		thump := tone(90, d, parameter.EliminationCueAttack, parameter.EliminationCueRelease, WaveSine, rate)
		return newVolume(beep.Mix(newVolume(noise, 0.35), newVolume(thump, 0.65)), gain)
	case CueWinner:
		note := parameter.WinnerCueNoteDuration
		final := parameter.WinnerCueFinalDuration
		return newVolume(beep.Seq(
			tone(523.25, note, parameter.WinnerCueAttack, parameter.WinnerCueRelease, WaveSquare, rate),
			tone(659.25, note, parameter.WinnerCueAttack, parameter.WinnerCueRelease, WaveSquare, rate),
			tone(783.99, final, parameter.WinnerCueAttack, parameter.WinnerCueFinalRelease, WaveSquare, rate),
		), gain*0.4)
	}
	return nil
}

// CuePlayer mixes cues into a single speaker stream
// Safe for concurrent use; all methods are no-ops before Init succeeds
type CuePlayer struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	gain   float64
	mixer  *beep.Mixer
	ready  bool
	seed   uint64
	last   [3]time.Time
	gaps   [3]time.Duration
	now    func() time.Time
	attach func(s beep.Streamer)
}

func NewCuePlayer(gain float64) *CuePlayer {
	return &CuePlayer{
		rate:  beep.SampleRate(parameter.AudioSampleRate),
		gain:  gain,
		mixer: &beep.Mixer{},
		gaps:  [3]time.Duration{parameter.HitCueGap, parameter.EliminationCueGap, 0},
		now:   time.Now,
	}
}

// Init opens the speaker; on failure the player stays silent and the error is returned for logging
func (p *CuePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.attach = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	p.ready = true
	return nil
}

func (p *CuePlayer) Hit()         { p.play(CueHit) }
func (p *CuePlayer) Elimination() { p.play(CueElimination) }
func (p *CuePlayer) Winner()      { p.play(CueWinner) }

// play adds c to the mix unless the same cue played within its gap
func (p *CuePlayer) play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	now := p.now()
	if gap := p.gaps[c]; gap > 0 && now.Sub(p.last[c]) < gap {
		return
	}
	p.last[c] = now
	p.seed++
	p.attach(p.Cue(c))
}

// Cue builds c with the player's rate and gain
func (p *CuePlayer) Cue(c Cue) beep.Streamer {
	return c.Build(p.rate, p.gain, p.seed)
}

// Close silences pending cues and releases the speaker
func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
}
