package midi

import (
	"log/slog"
	"sort"

	"github.com/dousto/redact-composer-go/composer"
	"github.com/dousto/redact-composer-go/tempo"
	"github.com/dousto/redact-composer-go/timing"
	"github.com/dousto/redact-composer-go/tree"
)

var logger = slog.Default().With("component", "midi")

// EventKind distinguishes the handful of MIDI-ish facts Convert emits.
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
	ProgramChangeEvent
	TempoMeta
)

// Event is one fact at an absolute tick, ready to be handed to whatever
// writes an actual MIDI file or streams to a synthesizer. Channel is -1
// for TempoMeta, which applies to the whole composition rather than one
// channel.
type Event struct {
	Tick                int32
	Channel             int
	Kind                EventKind
	Key                 uint8
	Velocity            uint8
	Program             uint8
	MicrosecondsPerBeat int64
}

// Convert walks comp's tree into a flat, tick-sorted Event stream: every
// Part is assigned a channel, every PlayNote under it becomes a NoteOn
// paired with a NoteOff, every Program becomes a ProgramChangeEvent, and
// every declared TempoChange is resolved via tempo.Splice into a minimal
// set of TempoMeta events.
func Convert(comp *composer.Composition, defaultTempo timing.Tempo) []Event {
	t := comp.Tree

	segs := make([]*composer.RenderSegment, t.Len())
	for i := 0; i < t.Len(); i++ {
		segs[i] = &t.Get(i).Value
	}
	channels := AllocateChannels(segs)

	var events []Event
	for idx := 0; idx < t.Len(); idx++ {
		seg := &t.Get(idx).Value
		if _, ok := composer.ElementAs[Part](seg.Segment.Element); !ok {
			continue
		}
		channel := channels[idx]
		if channel == -1 {
			continue
		}
		events = append(events, subtreeEvents(t, idx, channel)...)
	}

	events = append(events, tempoEvents(t, defaultTempo)...)

	sort.SliceStable(events, func(a, b int) bool {
		if events[a].Tick != events[b].Tick {
			return events[a].Tick < events[b].Tick
		}
		return eventPriority(events[a]) < eventPriority(events[b])
	})

	return events
}

func subtreeEvents(t *tree.Tree[composer.RenderSegment], root, channel int) []Event {
	var out []Event
	indices := append([]int{root}, t.Descendants(root)...)
	for _, idx := range indices {
		seg := t.Get(idx).Value.Segment
		if note, ok := composer.ElementAs[PlayNote](seg.Element); ok {
			out = append(out,
				Event{Tick: seg.Timing.Start, Channel: channel, Kind: NoteOn, Key: note.Key, Velocity: note.Velocity},
				Event{Tick: seg.Timing.End, Channel: channel, Kind: NoteOff, Key: note.Key, Velocity: note.Velocity},
			)
		} else if program, ok := composer.ElementAs[Program](seg.Element); ok {
			out = append(out, Event{Tick: seg.Timing.Start, Channel: channel, Kind: ProgramChangeEvent, Program: program.Instrument})
		}
	}
	return out
}

func tempoEvents(t *tree.Tree[composer.RenderSegment], defaultTempo timing.Tempo) []Event {
	root := t.Root().Value.Segment.Timing

	var declared []tempo.Event
	for idx := 0; idx < t.Len(); idx++ {
		seg := t.Get(idx).Value.Segment
		if change, ok := composer.ElementAs[TempoChange](seg.Element); ok {
			declared = append(declared, tempo.Event{Tempo: timing.Tempo{BPM: change.BPM}, Timing: seg.Timing})
		}
	}

	spans := tempo.Splice(declared, defaultTempo, root)
	out := make([]Event, 0, len(spans))
	for _, s := range spans {
		out = append(out, Event{
			Tick:                s.Timing.Start,
			Channel:             -1,
			Kind:                TempoMeta,
			MicrosecondsPerBeat: s.Tempo.MicrosecondsPerBeat(),
		})
	}
	return out
}

// eventPriority breaks same-tick ties: tempo changes and program changes
// land before notes, matching how a reader expects to see the channel
// configured before the notes that depend on it.
func eventPriority(e Event) int {
	switch e.Kind {
	case TempoMeta:
		return 0
	case ProgramChangeEvent:
		return 1
	default:
		return 2
	}
}
