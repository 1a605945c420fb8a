// Package midi supplies terminal vocabulary elements a render engine can
// target (notes, program changes, instrument parts) and a converter that
// walks a finished composition into a flat, channel-assigned MIDI event
// stream. It has no opinion on how those events reach a synthesizer or a
// file; it only resolves the tree into the ordered facts a writer needs.
package midi

import (
	"encoding/json"

	"github.com/dousto/redact-composer-go/composer"
)

func init() {
	composer.RegisterElement[PlayNote]("midi.PlayNote")
	composer.RegisterElement[Program]("midi.Program")
	composer.RegisterElement[Part]("midi.Part")
	composer.RegisterElement[TempoChange]("midi.TempoChange")
	composer.RegisterElement[DrumKit]("midi.DrumKit")
}

// PlayNote is a terminal element: a single note, sustained for its
// segment's timing, at the given key and velocity.
type PlayNote struct {
	composer.Unwrapped
	Key      uint8
	Velocity uint8
}

// Program selects a GM instrument (or, on the percussion channel, a kit)
// for the part it falls within. Terminal.
type Program struct {
	composer.Unwrapped
	Instrument uint8
}

// PartType distinguishes a Part destined for an instrument channel from
// one destined for the reserved percussion channel.
type PartType int

const (
	InstrumentPart PartType = iota
	PercussionPart
)

func (t PartType) String() string {
	if t == PercussionPart {
		return "percussion"
	}
	return "instrument"
}

// Part wraps an element, declaring that every PlayNote rendered anywhere
// within it is to be played by a single instrument voice. The converter
// assigns each Part subtree its own MIDI channel.
type Part struct {
	Inner composer.Element
	Type  PartType
}

// Instrument builds an instrument Part wrapping inner.
func Instrument(inner composer.Element) Part {
	return Part{Inner: inner, Type: InstrumentPart}
}

// Percussion builds a percussion Part wrapping inner.
func Percussion(inner composer.Element) Part {
	return Part{Inner: inner, Type: PercussionPart}
}

// WrappedElement exposes Inner so queries for the wrapped type also match
// a Part that contains one.
func (p Part) WrappedElement() composer.Element { return p.Inner }

type partWire struct {
	Inner json.RawMessage `json:"inner"`
	Type  PartType        `json:"type"`
}

// MarshalJSON tags Inner with its registered element name so it survives
// the interface-typed field through an UnmarshalJSON round trip.
func (p Part) MarshalJSON() ([]byte, error) {
	inner, err := composer.MarshalElement(p.Inner)
	if err != nil {
		return nil, err
	}
	return json.Marshal(partWire{Inner: inner, Type: p.Type})
}

// UnmarshalJSON reverses MarshalJSON.
func (p *Part) UnmarshalJSON(data []byte) error {
	var wire partWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	inner, err := composer.UnmarshalElement(wire.Inner)
	if err != nil {
		return err
	}
	p.Inner = inner
	p.Type = wire.Type
	return nil
}

// TempoChange declares the tempo in effect over its segment's timing.
// Overlapping TempoChanges are resolved by the tempo package before
// conversion.
type TempoChange struct {
	composer.Unwrapped
	BPM float64
}

// DrumKit is a semantic marker indicating a program number represents a
// percussion kit rather than a melodic instrument. Its renderer converts
// it to a plain Program.
type DrumKit struct {
	composer.Unwrapped
	Instrument uint8
}

// Program converts d to the program-number element the converter reads.
func (d DrumKit) Program() Program {
	return Program{Instrument: d.Instrument}
}

// DrumKitRenderer converts a DrumKit segment into the equivalent Program,
// over the same timing.
func DrumKitRenderer() composer.Renderer[DrumKit] {
	return composer.RendererFunc[DrumKit](func(seg composer.SegmentView[DrumKit], _ *composer.Context) ([]composer.Segment, error) {
		return []composer.Segment{composer.Over(seg.Element.Program(), seg.Timing)}, nil
	})
}

// Renderers returns the default render engine for this package's
// elements (just DrumKit; Part, PlayNote, Program and TempoChange are
// terminal and read directly by Convert).
func Renderers() *composer.RenderEngine {
	engine := composer.NewRenderEngine()
	composer.AddRenderer[DrumKit](engine, DrumKitRenderer())
	return engine
}
