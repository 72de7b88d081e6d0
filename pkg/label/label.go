// Package label implements the typed integer-range label algebra used to
// negotiate VLAN/wavelength values end-to-end across a path: canonical
// representation, normalization, and intersection.
package label

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/ogfnsi/nsa-core/pkg/errs"
)

// EthernetVLANType is the label type URI for Ethernet VLAN tags.
const EthernetVLANType = "http://schemas.ogf.org/nsi/2013/12/services/types#ethernet-vlan"

// Range is an inclusive integer range, Lo <= Hi.
type Range struct {
	Lo, Hi int
}

// Label is an immutable, normalized set of integer ranges of a given type.
// Ranges are sorted, non-overlapping, and non-adjacent: for any two
// consecutive ranges r_i, r_{i+1}, r_i.Hi+1 < r_{i+1}.Lo.
type Label struct {
	typ    string
	ranges []Range
}

// Type returns the label's type URI.
func (l *Label) Type() string {
	return l.typ
}

// Ranges returns a copy of the normalized ranges.
func (l *Label) Ranges() []Range {
	out := make([]Range, len(l.ranges))
	copy(out, l.ranges)
	return out
}

// New builds a Label from an explicit list of ranges, normalizing them.
// Fails with a PayloadError if any range has Lo > Hi, or if the input is
// empty after normalization (empty label sets are not representable).
func New(typ string, ranges []Range) (*Label, error) {
	for _, r := range ranges {
		if r.Lo > r.Hi {
			return nil, &errs.PayloadError{Detail: fmt.Sprintf("range %d-%d is in descending order", r.Lo, r.Hi)}
		}
	}
	normalized := normalize(ranges)
	if len(normalized) == 0 {
		return nil, &errs.PayloadError{Detail: "label set must not be empty"}
	}
	return &Label{typ: typ, ranges: normalized}, nil
}

// Parse builds a Label from a list of tokens, each either "n" (singleton)
// or "lo-hi" (inclusive range).
func Parse(typ string, tokens []string) (*Label, error) {
	ranges := make([]Range, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		r, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return New(typ, ranges)
}

// ParseString builds a Label from a comma-separated textual form, e.g.
// "100,200-210,300".
func ParseString(typ, text string) (*Label, error) {
	return Parse(typ, strings.Split(text, ","))
}

func parseToken(tok string) (Range, error) {
	if idx := strings.IndexByte(tok, '-'); idx > 0 {
		loStr, hiStr := tok[:idx], tok[idx+1:]
		lo, err := strconv.Atoi(strings.TrimSpace(loStr))
		if err != nil {
			return Range{}, &errs.PayloadError{Detail: fmt.Sprintf("label %q is not an integer or an integer range", tok)}
		}
		hi, err := strconv.Atoi(strings.TrimSpace(hiStr))
		if err != nil {
			return Range{}, &errs.PayloadError{Detail: fmt.Sprintf("label %q is not an integer or an integer range", tok)}
		}
		if lo > hi {
			return Range{}, &errs.PayloadError{Detail: fmt.Sprintf("label value %s is in descending order, which is not allowed", tok)}
		}
		return Range{Lo: lo, Hi: hi}, nil
	}

	v, err := strconv.Atoi(tok)
	if err != nil {
		return Range{}, &errs.PayloadError{Detail: fmt.Sprintf("label %q is not an integer or an integer range", tok)}
	}
	return Range{Lo: v, Hi: v}, nil
}

// normalize sorts ranges by Lo and merges any that overlap or are adjacent.
func normalize(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Lo != sorted[j].Lo {
			return sorted[i].Lo < sorted[j].Lo
		}
		return sorted[i].Hi < sorted[j].Hi
	})

	out := make([]Range, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.Lo <= cur.Hi+1 {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}

// Intersect returns the canonical set of values present in both labels.
// Both labels must share the same type. Fails with EmptyLabelSetError if
// the intersection is empty.
func (l *Label) Intersect(other *Label) (*Label, error) {
	if l.typ != other.typ {
		return nil, &errs.PayloadError{Detail: fmt.Sprintf("cannot intersect label types %q and %q", l.typ, other.typ)}
	}

	var result []Range
	i, j := 0, 0
	for i < len(l.ranges) && j < len(other.ranges) {
		a, b := l.ranges[i], other.ranges[j]
		switch {
		case a.Hi < b.Lo:
			i++
		case b.Hi < a.Lo:
			j++
		default:
			lo := a.Lo
			if b.Lo > lo {
				lo = b.Lo
			}
			hi := a.Hi
			if b.Hi < hi {
				hi = b.Hi
			}
			result = append(result, Range{Lo: lo, Hi: hi})
			if a.Hi == b.Hi {
				i++
				j++
			} else if a.Hi < b.Hi {
				i++
			} else {
				j++
			}
		}
	}

	if len(result) == 0 {
		return nil, &errs.EmptyLabelSetError{Type: l.typ}
	}
	// The sweep above never produces overlapping or adjacent output ranges
	// when both inputs are already normalized, but run it through
	// normalize anyway so the invariant holds unconditionally.
	return &Label{typ: l.typ, ranges: normalize(result)}, nil
}

// Value renders the label's canonical textual form, e.g. "100,200-210,300".
func (l *Label) Value() string {
	parts := make([]string, len(l.ranges))
	for i, r := range l.ranges {
		if r.Lo == r.Hi {
			parts[i] = strconv.Itoa(r.Lo)
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.Lo, r.Hi)
		}
	}
	return strings.Join(parts, ",")
}

// Enumerate flattens all ranges into the full list of integer values.
func (l *Label) Enumerate() []int {
	var out []int
	for _, r := range l.ranges {
		for v := r.Lo; v <= r.Hi; v++ {
			out = append(out, v)
		}
	}
	return out
}

// SingleValue reports whether this label contains exactly one value.
func (l *Label) SingleValue() bool {
	return len(l.ranges) == 1 && l.ranges[0].Lo == l.ranges[0].Hi
}

// RandomValue picks a range uniformly by index, then a value uniformly
// within it. This is explicitly not uniform over values when ranges have
// different widths — only over which range is chosen.
func (l *Label) RandomValue(rng *rand.Rand) (int, error) {
	if len(l.ranges) == 0 {
		return 0, &errs.EmptyLabelSetError{Type: l.typ}
	}
	r := l.ranges[rng.Intn(len(l.ranges))]
	return rng.Intn(r.Hi-r.Lo+1) + r.Lo, nil
}

// Equal reports structural equality: same type and same ranges.
func (l *Label) Equal(other *Label) bool {
	if other == nil {
		return false
	}
	if l.typ != other.typ || len(l.ranges) != len(other.ranges) {
		return false
	}
	for i := range l.ranges {
		if l.ranges[i] != other.ranges[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (l *Label) String() string {
	return fmt.Sprintf("%s:%s", l.typ, l.Value())
}
