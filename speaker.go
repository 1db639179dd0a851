package xo8

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var ErrSpeakerIsNotBooted = errors.New("the speaker has not been booted")

// Speaker plays the machine's tone through the host sound device.
type Speaker struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	loop    *loopReader
	playing bool
}

func NewSpeaker() *Speaker {
	return &Speaker{
		loop: &loopReader{},
	}
}

// Boot implements Audio.
// It opens the sound device; the first call may block while the host
// audio stack comes up.
func (s *Speaker) Boot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   AudioSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatUnsignedInt8,
	})
	if err != nil {
		return fmt.Errorf("opening sound device: %w", err)
	}
	<-ready

	s.ctx = ctx
	s.player = ctx.NewPlayer(s.loop)

	return nil
}

// SetWaveform implements Audio.
// The player keeps pulling from the loop reader, so swapping the samples
// is enough to change the tone mid-playback.
func (s *Speaker) SetWaveform(samples []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loop.Swap(samples)
	return nil
}

// PlayLooping implements Audio.
func (s *Speaker) PlayLooping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return ErrSpeakerIsNotBooted
	}
	if s.playing {
		return nil
	}

	s.player.Play()
	s.playing = true
	return nil
}

// Stop implements Audio
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return ErrSpeakerIsNotBooted
	}
	if !s.playing {
		return nil
	}

	s.player.Pause()
	s.playing = false
	return nil
}

// Close releases the player. The sound device stays open, oto contexts
// cannot be torn down.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}

	err := s.player.Close()
	s.player = nil
	s.playing = false
	return err
}

// loopReader feeds the player the current waveform over and over.
// An empty waveform reads as silence so the player never starves.
type loopReader struct {
	mu      sync.Mutex
	samples []byte
	pos     int
}

func (r *loopReader) Swap(samples []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples = samples
	r.pos = 0
}

func (r *loopReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.samples) == 0 {
		clear(p)
		return len(p), nil
	}

	n := 0
	for n < len(p) {
		c := copy(p[n:], r.samples[r.pos:])
		n += c
		r.pos += c
		if r.pos == len(r.samples) {
			r.pos = 0
		}
	}
	return n, nil
}
