package composer

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/dousto/redact-composer-go/timing"
	"github.com/dousto/redact-composer-go/tree"
)

type elementEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalElement serializes e using its registered type name as a tag,
// so an Element interface value can be round-tripped without the reader
// needing to already know its concrete type.
func MarshalElement(e Element) ([]byte, error) {
	t := reflect.TypeOf(e)
	name, ok := registeredName(t)
	if !ok {
		return nil, fmt.Errorf("composer: element type %s is not registered (call RegisterElement first)", t)
	}
	value, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("composer: marshaling element value: %w", err)
	}
	return json.Marshal(elementEnvelope{Type: name, Value: value})
}

// UnmarshalElement reconstructs an Element from the envelope MarshalElement
// produced.
func UnmarshalElement(data []byte) (Element, error) {
	var envelope elementEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("composer: unmarshaling element envelope: %w", err)
	}
	t, ok := registeredType(envelope.Type)
	if !ok {
		return nil, fmt.Errorf("composer: element type %q is not registered", envelope.Type)
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(envelope.Value, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("composer: unmarshaling element value of type %q: %w", envelope.Type, err)
	}
	el, ok := ptr.Elem().Interface().(Element)
	if !ok {
		return nil, fmt.Errorf("composer: registered type %q does not implement Element", envelope.Type)
	}
	return el, nil
}

// wireNode is the nested-children JSON form a Composition's tree is
// serialized to and from. Children appear nested under their parent, but
// on decode they are assigned node indices breadth-first rather than in
// the order they are nested, so idx/parent values are never trusted from
// the wire and are always recomputed.
type wireNode struct {
	Element  json.RawMessage `json:"element"`
	Start    int32           `json:"start"`
	End      int32           `json:"end"`
	Name     *string         `json:"name,omitempty"`
	Seed     uint64          `json:"seed"`
	Rendered bool            `json:"rendered"`
	Error    *string         `json:"error,omitempty"`
	Children []wireNode      `json:"children,omitempty"`
}

type wireComposition struct {
	RunID   string              `json:"run_id"`
	Options CompositionOptions  `json:"options"`
	Tree    wireNode            `json:"tree"`
}

func buildWireNode(t *tree.Tree[RenderSegment], idx int) (wireNode, error) {
	n := t.Get(idx).Value
	elemBytes, err := MarshalElement(n.Segment.Element)
	if err != nil {
		return wireNode{}, err
	}
	var errStr *string
	if n.Error != nil {
		s := n.Error.Error()
		errStr = &s
	}
	children := t.Get(idx).Children
	kids := make([]wireNode, 0, len(children))
	for _, c := range children {
		kid, err := buildWireNode(t, c)
		if err != nil {
			return wireNode{}, err
		}
		kids = append(kids, kid)
	}
	return wireNode{
		Element:  elemBytes,
		Start:    n.Segment.Timing.Start,
		End:      n.Segment.Timing.End,
		Name:     n.Segment.Name,
		Seed:     n.Seed,
		Rendered: n.Rendered,
		Error:    errStr,
		Children: kids,
	}, nil
}

// MarshalJSON implements json.Marshaler for Composition.
func (c *Composition) MarshalJSON() ([]byte, error) {
	root, err := buildWireNode(c.Tree, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireComposition{RunID: c.RunID, Options: c.Options, Tree: root})
}

type pendingNode struct {
	w      wireNode
	parent int
}

func renderSegmentFromWire(w wireNode) (RenderSegment, error) {
	el, err := UnmarshalElement(w.Element)
	if err != nil {
		return RenderSegment{}, err
	}
	var errVal error
	if w.Error != nil {
		errVal = fmt.Errorf("%s", *w.Error)
	}
	return RenderSegment{
		Segment: Segment{
			Element: el,
			Timing:  timing.Timing{Start: w.Start, End: w.End},
			Name:    w.Name,
		},
		Seed:     w.Seed,
		Rendered: w.Rendered,
		Error:    errVal,
	}, nil
}

// UnmarshalJSON implements json.Unmarshaler for Composition, rebuilding
// the tree breadth-first from the nested wire form.
func (c *Composition) UnmarshalJSON(data []byte) error {
	var wire wireComposition
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("composer: unmarshaling composition envelope: %w", err)
	}

	rootSeg, err := renderSegmentFromWire(wire.Tree)
	if err != nil {
		return err
	}
	t := tree.New(rootSeg)

	queue := make([]pendingNode, 0, len(wire.Tree.Children))
	for _, child := range wire.Tree.Children {
		queue = append(queue, pendingNode{w: child, parent: 0})
	}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		seg, err := renderSegmentFromWire(item.w)
		if err != nil {
			return err
		}
		idx := t.Insert(seg, item.parent)
		for _, child := range item.w.Children {
			queue = append(queue, pendingNode{w: child, parent: idx})
		}
	}

	c.RunID = wire.RunID
	c.Options = wire.Options
	c.Tree = t
	return nil
}
