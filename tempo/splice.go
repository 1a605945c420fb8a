// Package tempo resolves a set of possibly-overlapping declared tempo
// segments into a minimal, non-overlapping, time-sorted sequence of tempo
// change events: whichever tempo was declared later wins for the
// duration of its own timing, and the tempo(s) it temporarily overrides
// resume exactly where the override ends.
package tempo

import (
	"sort"

	"github.com/dousto/redact-composer-go/timing"
)

// Event is one declared tempo over a span of the composition. Events are
// processed in the order given, which should match the order their
// segments were discovered in the composition tree: a later event in the
// slice overrides an earlier one wherever their timings overlap.
type Event struct {
	Tempo  timing.Tempo
	Timing timing.Timing
}

type span struct {
	tempo  timing.Tempo
	timing timing.Timing
}

// Splice resolves events (declared over the whole root span, with
// defaultTempo covering any part of root not touched by any event) into a
// sorted, non-overlapping list of (start tick, tempo) changes.
func Splice(events []Event, defaultTempo timing.Tempo, root timing.Timing) []Event {
	spans := []span{{tempo: defaultTempo, timing: root}}

	for _, e := range events {
		startOverlap := sort.Search(len(spans), func(i int) bool {
			return spans[i].timing.Start >= e.Timing.Start
		})
		endOverlap := sort.Search(len(spans), func(i int) bool {
			return spans[i].timing.End > e.Timing.End
		})

		if startOverlap > endOverlap {
			// The new tempo falls entirely within one existing span: split
			// that span into a before-part, the new tempo, and an
			// after-part resuming the original tempo.
			splice := spans[endOverlap]
			spans = append(spans[:endOverlap], append([]span{}, spans[endOverlap+1:]...)...)

			before := span{tempo: splice.tempo, timing: timing.Timing{Start: splice.timing.Start, End: e.Timing.Start}}
			after := span{tempo: splice.tempo, timing: timing.Timing{Start: e.Timing.End, End: splice.timing.End}}
			newSpan := span{tempo: e.Tempo, timing: e.Timing}

			spans = insertSpans(spans, endOverlap, before, newSpan, after)
		} else {
			// The new tempo fully or partially covers one or more existing
			// spans: drop the covered spans, trim their neighbors, and
			// insert the new one.
			spans = append(spans[:startOverlap], spans[endOverlap:]...)

			if startOverlap > 0 {
				prev := &spans[startOverlap-1]
				if e.Timing.Start < prev.timing.End {
					prev.timing.End = e.Timing.Start
				}
			}
			if startOverlap < len(spans) {
				next := &spans[startOverlap]
				if e.Timing.End > next.timing.Start {
					next.timing.Start = e.Timing.End
				}
			}

			spans = insertSpans(spans, startOverlap, span{tempo: e.Tempo, timing: e.Timing})
		}
	}

	out := make([]Event, 0, len(spans))
	for _, s := range spans {
		out = append(out, Event{Tempo: s.tempo, Timing: s.timing})
	}
	return out
}

func insertSpans(spans []span, at int, toInsert ...span) []span {
	out := make([]span, 0, len(spans)+len(toInsert))
	out = append(out, spans[:at]...)
	out = append(out, toInsert...)
	out = append(out, spans[at:]...)
	return out
}
