// Package audio plays viewer sound: a looping ambient track and short
// effects such as footsteps.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager owns the speaker and mixes effects over the ambient track.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	ambient     beep.StreamSeekCloser
	ambientCtrl *beep.Ctrl
	ambientVol  *effects.Volume

	// Volume settings (0.0 to 1.0)
	master       float64
	ambientLevel float64
	sfxLevel     float64

	sfx *beep.Mixer
}

// New creates a manager with full master volume.
func New() *Manager {
	return &Manager{
		master:       1.0,
		ambientLevel: 0.5,
		sfxLevel:     0.8,
		sfx:          &beep.Mixer{},
	}
}

// Init opens the speaker. Calling it twice is a no-op.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfx)

	m.initialized = true
	return nil
}

// Close stops all playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopAmbient()
	speaker.Clear()
	m.initialized = false
}

// Initialized reports whether Init succeeded.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolumes sets master, effect and ambient levels, each clamped to [0, 1].
func (m *Manager) SetVolumes(master, sfx, ambient float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = clamp(master, 0, 1)
	m.sfxLevel = clamp(sfx, 0, 1)
	m.ambientLevel = clamp(ambient, 0, 1)
	m.applyAmbientVolume()
}

// Volumes returns the master, effect and ambient levels.
func (m *Manager) Volumes() (master, sfx, ambient float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.master, m.sfxLevel, m.ambientLevel
}

// PlayAmbient loops WAV data until StopAmbient or Close.
func (m *Manager) PlayAmbient(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	m.stopAmbient()

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	loop := &looper{source: streamer}
	loop.resampled = m.resample(format.SampleRate, streamer)

	m.ambient = streamer
	m.ambientCtrl = &beep.Ctrl{Streamer: loop}
	m.ambientVol = &effects.Volume{Streamer: m.ambientCtrl, Base: 2}
	m.applyAmbientVolume()

	speaker.Lock()
	m.sfx.Add(m.ambientVol)
	speaker.Unlock()
	return nil
}

// StopAmbient stops the ambient track.
func (m *Manager) StopAmbient() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAmbient()
}

func (m *Manager) stopAmbient() {
	if m.ambientCtrl != nil {
		speaker.Lock()
		// A nil streamer makes the mixer drop the track.
		m.ambientCtrl.Streamer = nil
		speaker.Unlock()
	}
	if m.ambient != nil {
		m.ambient.Close()
	}
	m.ambient = nil
	m.ambientCtrl = nil
	m.ambientVol = nil
}

// PlaySFX mixes one WAV effect over whatever is playing.
func (m *Manager) PlaySFX(data []byte) error {
	m.mu.RLock()
	initialized := m.initialized
	level := m.master * m.sfxLevel
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	speaker.Lock()
	m.sfx.Add(&effects.Volume{
		Streamer: m.resample(format.SampleRate, streamer),
		Base:     2,
		Volume:   volumeExponent(level),
		Silent:   level <= 0,
	})
	speaker.Unlock()
	return nil
}

func (m *Manager) resample(from beep.SampleRate, s beep.Streamer) beep.Streamer {
	if from == m.sampleRate {
		return s
	}
	return beep.Resample(4, from, m.sampleRate, s)
}

func (m *Manager) applyAmbientVolume() {
	if m.ambientVol == nil {
		return
	}
	level := m.master * m.ambientLevel
	m.ambientVol.Silent = level <= 0
	m.ambientVol.Volume = volumeExponent(level)
}

// volumeExponent maps a linear level to the effects.Volume exponent for
// Base 2, so 0.5 is one halving.
func volumeExponent(level float64) float64 {
	if level <= 0 {
		return -100
	}
	return math.Log2(level)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// looper restarts a seekable source whenever it runs dry.
type looper struct {
	source    beep.StreamSeeker
	resampled beep.Streamer
}

func (l *looper) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if ok {
			continue
		}
		if l.source.Len() == 0 || l.source.Seek(0) != nil {
			return filled, filled > 0
		}
	}
	return filled, true
}

func (l *looper) Err() error {
	return l.source.Err()
}
