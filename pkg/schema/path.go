package schema

import (
	"strconv"
	"strings"
)

type segmentKind uint8

const (
	segmentKey segmentKind = iota
	segmentIndex
	segmentSpan
)

// Segment is one step of a Path: a map key, a list index or a span of
// missing list positions.
type Segment struct {
	kind segmentKind
	key  string
	lo   int
	hi   int
}

// Key returns a segment addressing a map key. Rendered as ".name".
func Key(name string) Segment { return Segment{kind: segmentKey, key: name} }

// Index returns a segment addressing a list element. Rendered as "[i]".
func Index(i int) Segment { return Segment{kind: segmentIndex, lo: i} }

// Span returns a segment addressing list positions lo..hi-1. Rendered as "[lo:hi]".
func Span(lo, hi int) Segment { return Segment{kind: segmentSpan, lo: lo, hi: hi} }

func (s Segment) String() string {
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

func (s Segment) writeTo(b *strings.Builder) {
	switch s.kind {
	case segmentKey:
		b.WriteByte('.')
		b.WriteString(s.key)
	case segmentIndex:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(s.lo))
		b.WriteByte(']')
	case segmentSpan:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(s.lo))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.hi))
		b.WriteByte(']')
	}
}

// Path locates a value inside a data tree.
//
// Paths are immutable. Appending shares the parent and costs O(1), so
// descending a tree never copies the prefix; the string form is only built
// by String.
type Path struct {
	root string
	tail *pathNode
}

type pathNode struct {
	parent *pathNode
	seg    Segment
	depth  int
}

// Root returns an empty path whose rendering starts with label.
func Root(label string) Path { return Path{root: label} }

// Label returns the root label.
func (p Path) Label() string { return p.root }

// Len returns the number of segments.
func (p Path) Len() int {
	if p.tail == nil {
		return 0
	}
	return p.tail.depth
}

// Append returns p extended by seg. p itself is unchanged.
func (p Path) Append(seg Segment) Path {
	return Path{
		root: p.root,
		tail: &pathNode{parent: p.tail, seg: seg, depth: p.Len() + 1},
	}
}

// Key returns p extended by a map key.
func (p Path) Key(name string) Path { return p.Append(Key(name)) }

// Index returns p extended by a list index.
func (p Path) Index(i int) Path { return p.Append(Index(i)) }

// Span returns p extended by a span of list positions.
func (p Path) Span(lo, hi int) Path { return p.Append(Span(lo, hi)) }

// Segments returns the segments from the root down.
func (p Path) Segments() []Segment {
	segs := make([]Segment, p.Len())
	for n := p.tail; n != nil; n = n.parent {
		segs[n.depth-1] = n.seg
	}
	return segs
}

// String renders the path, e.g. "hpos-config.json: .v1.settings[0]".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(p.root)
	for _, seg := range p.Segments() {
		seg.writeTo(&b)
	}
	return b.String()
}
