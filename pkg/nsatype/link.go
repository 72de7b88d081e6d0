package nsatype

import (
	"fmt"

	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/label"
)

// Link is an intra-network link between two ports, carrying the label
// restrictions negotiated for the source and destination ends.
type Link struct {
	Network              string
	SrcPort, DstPort      string
	SrcLabels, DstLabels []*label.Label
}

// NewLink builds a Link, enforcing that SrcLabels and DstLabels are either
// both nil or both non-nil.
func NewLink(network, srcPort, dstPort string, srcLabels, dstLabels []*label.Label) (Link, error) {
	if (srcLabels == nil) != (dstLabels == nil) {
		return Link{}, &errs.PayloadError{Detail: "source and destination labels must either both be unset or both specified"}
	}
	return Link{
		Network:   network,
		SrcPort:   srcPort,
		DstPort:   dstPort,
		SrcLabels: srcLabels,
		DstLabels: dstLabels,
	}, nil
}

// SourceSTP derives the STP at this link's source end.
func (l Link) SourceSTP() STP {
	return STP{Network: l.Network, Port: l.SrcPort, Labels: l.SrcLabels}
}

// DestSTP derives the STP at this link's destination end.
func (l Link) DestSTP() STP {
	return STP{Network: l.Network, Port: l.DstPort, Labels: l.DstLabels}
}

// String implements fmt.Stringer.
func (l Link) String() string {
	if len(l.SrcLabels) == 0 {
		return fmt.Sprintf("<Link %s::%s--%s>", l.Network, l.SrcPort, l.DstPort)
	}
	return fmt.Sprintf("<Link %s::%s=%s--%s=%s>", l.Network, l.SrcPort, l.SrcLabels[0].Value(), l.DstPort, l.DstLabels[0].Value())
}
