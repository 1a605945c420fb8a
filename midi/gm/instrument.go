// Package gm supplies the General MIDI Level 1 instrument and percussion
// key maps as render-engine elements, plus default renderers converting
// them into the plain midi.Program/midi.PlayNote terminals the converter
// understands.
package gm

import (
	"github.com/dousto/redact-composer-go/composer"
	"github.com/dousto/redact-composer-go/midi"
)

func init() {
	composer.RegisterElement[Instrument]("gm.Instrument")
	composer.RegisterElement[DrumHit]("gm.DrumHit")
}

// Instrument enumerates the 128 GM1 program numbers in GM order.
type Instrument uint8

const (
	AcousticGrandPiano Instrument = iota
	BrightAcousticPiano
	ElectricGrandPiano
	HonkyTonkPiano
	ElectricPiano1
	ElectricPiano2
	Harpsichord
	Clavi

	Celesta
	Glockenspiel
	MusicBox
	Vibraphone
	Marimba
	Xylophone
	TubularBells
	Dulcimer

	DrawbarOrgan
	PercussiveOrgan
	RockOrgan
	ChurchOrgan
	ReedOrgan
	Accordion
	Harmonica
	TangoAccordion

	AcousticGuitarNylon
	AcousticGuitarSteel
	ElectricGuitarJazz
	ElectricGuitarClean
	ElectricGuitarMuted
	OverdrivenGuitar
	DistortionGuitar
	GuitarHarmonics

	AcousticBass
	ElectricBassFinger
	ElectricBassPick
	FretlessBass
	SlapBass1
	SlapBass2
	SynthBass1
	SynthBass2

	Violin
	Viola
	Cello
	Contrabass
	TremoloStrings
	PizzicatoStrings
	OrchestralHarp
	Timpani

	StringEnsemble1
	StringEnsemble2
	SynthStrings1
	SynthStrings2
	ChoirAahs
	ChoirOohs
	SynthVoice
	OrchestraHit

	Trumpet
	Trombone
	Tuba
	MutedTrumpet
	FrenchHorn
	BrassSection
	SynthBrass1
	SynthBrass2

	SopranoSax
	AltoSax
	TenorSax
	BaritoneSax
	Oboe
	EnglishHorn
	Bassoon
	Clarinet

	Piccolo
	Flute
	Recorder
	PanFlute
	BlownBottle
	Shakuhachi
	Whistle
	Ocarina

	LeadSquare
	LeadSawtooth
	LeadCalliope
	LeadChiff
	LeadCharang
	LeadVoice
	LeadFifths
	LeadBassPlusLead

	PadNewAge
	PadWarm
	PadPolySynth
	PadChoir
	PadBowed
	PadMetallic
	PadHalo
	PadSweep

	FXRain
	FXSoundtrack
	FXCrystal
	FXAtmosphere
	FXBrightness
	FXGoblins
	FXEchoes
	FXSciFi

	Sitar
	Banjo
	Shamisen
	Koto
	Kalimba
	BagPipe
	Fiddle
	Shanai

	TinkleBell
	Agogo
	SteelDrums
	Woodblock
	TaikoDrum
	MelodicTom
	SynthDrum
	ReverseCymbal

	GuitarFretNoise
	BreathNoise
	Seashore
	BirdTweet
	TelephoneRing
	Helicopter
	Applause
	Gunshot
)

var instrumentNames = [...]string{
	"AcousticGrandPiano", "BrightAcousticPiano", "ElectricGrandPiano", "HonkyTonkPiano",
	"ElectricPiano1", "ElectricPiano2", "Harpsichord", "Clavi",
	"Celesta", "Glockenspiel", "MusicBox", "Vibraphone", "Marimba", "Xylophone", "TubularBells", "Dulcimer",
	"DrawbarOrgan", "PercussiveOrgan", "RockOrgan", "ChurchOrgan", "ReedOrgan", "Accordion", "Harmonica", "TangoAccordion",
	"AcousticGuitarNylon", "AcousticGuitarSteel", "ElectricGuitarJazz", "ElectricGuitarClean",
	"ElectricGuitarMuted", "OverdrivenGuitar", "DistortionGuitar", "GuitarHarmonics",
	"AcousticBass", "ElectricBassFinger", "ElectricBassPick", "FretlessBass",
	"SlapBass1", "SlapBass2", "SynthBass1", "SynthBass2",
	"Violin", "Viola", "Cello", "Contrabass", "TremoloStrings", "PizzicatoStrings", "OrchestralHarp", "Timpani",
	"StringEnsemble1", "StringEnsemble2", "SynthStrings1", "SynthStrings2",
	"ChoirAahs", "ChoirOohs", "SynthVoice", "OrchestraHit",
	"Trumpet", "Trombone", "Tuba", "MutedTrumpet", "FrenchHorn", "BrassSection", "SynthBrass1", "SynthBrass2",
	"SopranoSax", "AltoSax", "TenorSax", "BaritoneSax", "Oboe", "EnglishHorn", "Bassoon", "Clarinet",
	"Piccolo", "Flute", "Recorder", "PanFlute", "BlownBottle", "Shakuhachi", "Whistle", "Ocarina",
	"LeadSquare", "LeadSawtooth", "LeadCalliope", "LeadChiff", "LeadCharang", "LeadVoice", "LeadFifths", "LeadBassPlusLead",
	"PadNewAge", "PadWarm", "PadPolySynth", "PadChoir", "PadBowed", "PadMetallic", "PadHalo", "PadSweep",
	"FXRain", "FXSoundtrack", "FXCrystal", "FXAtmosphere", "FXBrightness", "FXGoblins", "FXEchoes", "FXSciFi",
	"Sitar", "Banjo", "Shamisen", "Koto", "Kalimba", "BagPipe", "Fiddle", "Shanai",
	"TinkleBell", "Agogo", "SteelDrums", "Woodblock", "TaikoDrum", "MelodicTom", "SynthDrum", "ReverseCymbal",
	"GuitarFretNoise", "BreathNoise", "Seashore", "BirdTweet", "TelephoneRing", "Helicopter", "Applause", "Gunshot",
}

// String returns the instrument's GM1 name, or "Instrument(unknown)" if
// i is out of the defined 0-127 range.
func (i Instrument) String() string {
	if int(i) < len(instrumentNames) {
		return instrumentNames[i]
	}
	return "Instrument(unknown)"
}

// Program converts i to the plain program-number element the converter
// understands.
func (i Instrument) Program() midi.Program {
	return midi.Program{Instrument: uint8(i)}
}

// WrappedElement always returns nil: Instrument is terminal apart from
// the Renderer that expands it into a Program.
func (i Instrument) WrappedElement() composer.Element { return nil }

// Renderer renders an Instrument segment down to the equivalent
// midi.Program, over the same timing.
func Renderer() composer.Renderer[Instrument] {
	return composer.RendererFunc[Instrument](func(seg composer.SegmentView[Instrument], _ *composer.Context) ([]composer.Segment, error) {
		return []composer.Segment{composer.Over(seg.Element.Program(), seg.Timing)}, nil
	})
}
