package timing

// Tempo is a beats-per-minute value with helpers for converting to the
// microseconds-per-beat form MIDI tempo events carry.
type Tempo struct {
	BPM float64
}

// MicrosecondsPerBeat returns the MIDI-style tempo value.
func (t Tempo) MicrosecondsPerBeat() int64 {
	return int64(60_000_000 / t.BPM)
}
