package gm

import (
	"github.com/dousto/redact-composer-go/composer"
	"github.com/dousto/redact-composer-go/midi"
)

// DrumHitType enumerates the GM1 percussion key map. Values start at 35
// to match the standard MIDI key numbers they represent.
type DrumHitType uint8

const (
	AcousticBassDrum DrumHitType = iota + 35
	BassDrum
	SideStick
	AcousticSnare
	HandClap
	ElectricSnare
	LowFloorTom
	ClosedHiHat
	HighFloorTom
	PedalHiHat
	LowTom
	OpenHiHat
	LowMidTom
	HighMidTom
	CrashCymbal1
	HighTom
	RideCymbal1
	ChineseCymbal
	RideBell
	Tambourine
	SplashCymbal
	Cowbell
	CrashCymbal2
	Vibraslap
	RideCymbal2
	HighBongo
	LowBongo
	MuteHighConga
	OpenHighConga
	LowConga
	HighTimbale
	LowTimbale
	HighAgogo
	LowAgogo
	Cabasa
	Maracas
	ShortWhistle
	LongWhistle
	ShortGuiro
	LongGuiro
	Claves
	HighWoodblock
	LowWoodblock
	MuteCuica
	OpenCuica
	MuteTriangle
	OpenTriangle
)

// DrumHit plays one percussion sound, similar in role to midi.PlayNote.
type DrumHit struct {
	composer.Unwrapped
	Hit      DrumHitType
	Velocity uint8
}

// DrumHitRenderer renders a DrumHit down to a midi.PlayNote at the hit's MIDI
// key number, over the same timing.
func DrumHitRenderer() composer.Renderer[DrumHit] {
	return composer.RendererFunc[DrumHit](func(seg composer.SegmentView[DrumHit], _ *composer.Context) ([]composer.Segment, error) {
		note := midi.PlayNote{Key: uint8(seg.Element.Hit), Velocity: seg.Element.Velocity}
		return []composer.Segment{composer.Over(note, seg.Timing)}, nil
	})
}

// Renderers returns the default render engine for this package's
// elements (Instrument, DrumHit).
func Renderers() *composer.RenderEngine {
	engine := composer.NewRenderEngine()
	composer.AddRenderer[Instrument](engine, Renderer())
	composer.AddRenderer[DrumHit](engine, DrumHitRenderer())
	return engine
}
