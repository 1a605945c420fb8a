package composer

import "github.com/dousto/redact-composer-go/timing"

// ComposerOptions configures a Composer's driver loop, independent of any
// one composition run.
type ComposerOptions struct {
	TicksPerBeat int32
	MaxPasses    int
}

// ComposerOption mutates a ComposerOptions in place.
type ComposerOption func(*ComposerOptions)

// WithTicksPerBeat overrides the default StandardBeatLength.
func WithTicksPerBeat(n int32) ComposerOption {
	return func(o *ComposerOptions) { o.TicksPerBeat = n }
}

// WithMaxPasses bounds the number of fixed-point passes the driver will
// run before giving up, guarding against a renderer that never converges.
// Zero (the default) means unbounded.
func WithMaxPasses(n int) ComposerOption {
	return func(o *ComposerOptions) { o.MaxPasses = n }
}

func defaultComposerOptions() ComposerOptions {
	return ComposerOptions{TicksPerBeat: timing.StandardBeatLength}
}

// NewComposerOptions builds a ComposerOptions from the given overrides.
func NewComposerOptions(opts ...ComposerOption) ComposerOptions {
	o := defaultComposerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CompositionOptions is carried alongside the rendered tree in a
// Composition, recording the options the run used so a later
// re-inspection doesn't need the Composer that produced it.
type CompositionOptions struct {
	ComposerOptions
	Seed uint64
}
