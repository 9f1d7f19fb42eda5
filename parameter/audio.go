package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer, trades latency for underrun safety
	AudioBufferDuration = 100 * time.Millisecond

	// DefaultCueVolume is the master gain applied to every cue
	DefaultCueVolume = 0.6
)

// Hit Cue
const (
	HitCueFreq     = 660.0
	HitCueDuration = 40 * time.Millisecond
	HitCueAttack   = 2 * time.Millisecond
	HitCueRelease  = 30 * time.Millisecond

	// HitCueGap rate limits hit blips; crowded ticks produce hundreds of contacts
	HitCueGap = 60 * time.Millisecond
)

// Elimination Cue
const (
	EliminationCueDuration = 180 * time.Millisecond
	EliminationCueAttack   = 5 * time.Millisecond
	EliminationCueRelease  = 150 * time.Millisecond
	EliminationCueGap      = 90 * time.Millisecond
)

// Winner Cue: rising three-note fanfare
const (
	WinnerCueNoteDuration  = 140 * time.Millisecond
	WinnerCueFinalDuration = 480 * time.Millisecond
	WinnerCueAttack        = 5 * time.Millisecond
	WinnerCueRelease       = 100 * time.Millisecond
	WinnerCueFinalRelease  = 400 * time.Millisecond
)
