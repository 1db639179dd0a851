package xo8

// Audio abstraction for the sound device.
// The cpu hands it fully resampled waveforms and toggles looping playback.
type Audio interface {
	// Boot initializes the component
	Boot() error
	// SetWaveform replaces the samples played back while looping.
	// Replacing the waveform mid-playback restarts the loop.
	SetWaveform(samples []byte) error
	PlayLooping() error
	Stop() error
}

// DummyAudio records what the cpu asked for without making a sound
type DummyAudio struct {
	Waveform  []byte
	IsPlaying bool
	Plays     int
	Stops     int
}

func NewDummyAudio() *DummyAudio {
	return &DummyAudio{}
}

// Boot implements Audio.
func (a *DummyAudio) Boot() error {
	return nil
}

// SetWaveform implements Audio.
func (a *DummyAudio) SetWaveform(samples []byte) error {
	a.Waveform = samples
	return nil
}

// PlayLooping implements Audio.
func (a *DummyAudio) PlayLooping() error {
	a.IsPlaying = true
	a.Plays++
	return nil
}

// Stop implements Audio
func (a *DummyAudio) Stop() error {
	a.IsPlaying = false
	a.Stops++
	return nil
}
