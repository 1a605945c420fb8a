package midi

import (
	"testing"

	"github.com/dousto/redact-composer-go/composer"
	"github.com/dousto/redact-composer-go/timing"
	"github.com/dousto/redact-composer-go/tree"
	"github.com/stretchr/testify/require"
)

type rootMarker struct {
	composer.Unwrapped
}

func buildConversionTree() *tree.Tree[composer.RenderSegment] {
	rs := tree.New(composer.RenderSegment{
		Segment:  composer.Over(rootMarker{}, timing.New(0, 40)),
		Rendered: true,
	})

	partAIdx := rs.Insert(composer.RenderSegment{
		Segment:  composer.Over(Instrument(PlayNote{}), timing.New(0, 20)),
		Rendered: true,
	}, 0)
	rs.Insert(composer.RenderSegment{
		Segment:  composer.Over(Program{Instrument: 40}, timing.New(0, 1)),
		Rendered: true,
	}, partAIdx)
	rs.Insert(composer.RenderSegment{
		Segment:  composer.Over(PlayNote{Key: 62, Velocity: 90}, timing.New(0, 4)),
		Rendered: true,
	}, partAIdx)

	partBIdx := rs.Insert(composer.RenderSegment{
		Segment:  composer.Over(Percussion(PlayNote{}), timing.New(0, 20)),
		Rendered: true,
	}, 0)
	rs.Insert(composer.RenderSegment{
		Segment:  composer.Over(PlayNote{Key: 38, Velocity: 100}, timing.New(2, 3)),
		Rendered: true,
	}, partBIdx)

	rs.Insert(composer.RenderSegment{
		Segment:  composer.Over(TempoChange{BPM: 90}, timing.New(10, 20)),
		Rendered: true,
	}, 0)

	return rs
}

func TestConvertProducesTickSortedEvents(t *testing.T) {
	comp := &composer.Composition{Tree: buildConversionTree()}
	events := Convert(comp, timing.Tempo{BPM: 120})

	require.NotEmpty(t, events)
	for i := 1; i < len(events); i++ {
		require.LessOrEqual(t, events[i-1].Tick, events[i].Tick)
	}
}

func TestConvertAssignsDistinctChannelsToInstrumentAndPercussion(t *testing.T) {
	comp := &composer.Composition{Tree: buildConversionTree()}
	events := Convert(comp, timing.Tempo{BPM: 120})

	var instrumentChannel, percussionChannel int = -2, -2
	for _, e := range events {
		if e.Kind == NoteOn && e.Key == 62 {
			instrumentChannel = e.Channel
		}
		if e.Kind == NoteOn && e.Key == 38 {
			percussionChannel = e.Channel
		}
	}
	require.NotEqual(t, -2, instrumentChannel)
	require.NotEqual(t, -2, percussionChannel)
	require.NotEqual(t, instrumentChannel, percussionChannel)
	require.Equal(t, PercussionChannel, percussionChannel)
}

func TestConvertResolvesOverlappingTempoChanges(t *testing.T) {
	comp := &composer.Composition{Tree: buildConversionTree()}
	events := Convert(comp, timing.Tempo{BPM: 120})

	var tempoTicks []int32
	for _, e := range events {
		if e.Kind == TempoMeta {
			tempoTicks = append(tempoTicks, e.Tick)
		}
	}
	require.Equal(t, []int32{0, 10, 20}, tempoTicks)
}

func TestConvertEmitsProgramChangeBeforeNotesAtSameTick(t *testing.T) {
	comp := &composer.Composition{Tree: buildConversionTree()}
	events := Convert(comp, timing.Tempo{BPM: 120})

	var programIdx, noteIdx = -1, -1
	for i, e := range events {
		if e.Kind == ProgramChangeEvent && programIdx == -1 {
			programIdx = i
		}
		if e.Kind == NoteOn && e.Key == 62 && noteIdx == -1 {
			noteIdx = i
		}
	}
	require.NotEqual(t, -1, programIdx)
	require.NotEqual(t, -1, noteIdx)
	require.Less(t, programIdx, noteIdx)
}
