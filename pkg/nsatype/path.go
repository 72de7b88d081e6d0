package nsatype

import (
	"strings"

	"github.com/ogfnsi/nsa-core/pkg/errs"
)

// Path is an ordered chain of links from a source STP to a destination STP.
type Path struct {
	Links []Link
}

// NewPath builds a Path, rejecting an empty link chain.
func NewPath(links []Link) (Path, error) {
	if len(links) == 0 {
		return Path{}, &errs.PayloadError{Detail: "path must contain at least one link"}
	}
	return Path{Links: links}, nil
}

// Source derives the STP at the start of the path.
func (p Path) Source() STP {
	return p.Links[0].SourceSTP()
}

// Dest derives the STP at the end of the path.
func (p Path) Dest() STP {
	return p.Links[len(p.Links)-1].DestSTP()
}

// String implements fmt.Stringer.
func (p Path) String() string {
	parts := make([]string, len(p.Links))
	for i, l := range p.Links {
		parts[i] = l.String()
	}
	return "<Path: " + strings.Join(parts, " ") + ">"
}
