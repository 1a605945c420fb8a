package midi

import (
	"sort"

	"github.com/dousto/redact-composer-go/composer"
)

// PercussionChannel is the one MIDI channel reserved for drum kits; no
// instrument Part is ever assigned to it.
const PercussionChannel = 9

const channelCount = 16

// partNode is the slice of a RenderSegment the channel allocator needs,
// decoupled from the tree so it can be built once and sorted freely.
type partNode struct {
	index int
	part  Part
	start int32
	end   int32
}

type heldChannel struct {
	channel int
	until   int32
	typ     PartType
}

// AllocateChannels assigns each Part in parts a MIDI channel, first-fit by
// start time: a channel is released back to its pool as soon as every
// Part holding it has ended at or before the next Part's start. Returns
// one channel per input part, in the same order, or -1 where no channel
// of the required kind was free; a -1 is a capacity warning; the caller
// decides whether to drop that part's notes or do something else.
func AllocateChannels(parts []*composer.RenderSegment) []int {
	nodes := make([]partNode, 0, len(parts))
	for i, seg := range parts {
		part, ok := composer.ElementAs[Part](seg.Segment.Element)
		if !ok {
			continue
		}
		nodes = append(nodes, partNode{index: i, part: part, start: seg.Segment.Timing.Start, end: seg.Segment.Timing.End})
	}

	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return nodes[order[a]].start < nodes[order[b]].start
	})

	instChannels := map[int]struct{}{}
	drumChannels := map[int]struct{}{PercussionChannel: {}}
	for c := 0; c < channelCount; c++ {
		if c != PercussionChannel {
			instChannels[c] = struct{}{}
		}
	}

	result := make([]int, len(parts))
	for i := range result {
		result[i] = -1
	}

	var held []heldChannel
	for _, ni := range order {
		n := nodes[ni]

		kept := held[:0]
		for _, h := range held {
			if h.until <= n.start {
				if h.typ == PercussionPart {
					drumChannels[h.channel] = struct{}{}
				} else {
					instChannels[h.channel] = struct{}{}
				}
			} else {
				kept = append(kept, h)
			}
		}
		held = kept

		pool := instChannels
		if n.part.Type == PercussionPart {
			pool = drumChannels
		}

		channel := -1
		for c := range pool {
			if channel == -1 || c < channel {
				channel = c
			}
		}
		if channel == -1 {
			logger.Warn("no channel available for part", "index", n.index, "type", n.part.Type.String())
			continue
		}
		delete(pool, channel)
		held = append(held, heldChannel{channel: channel, until: n.end, typ: n.part.Type})
		result[n.index] = channel
	}

	return result
}
