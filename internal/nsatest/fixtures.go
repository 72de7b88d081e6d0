package nsatest

import "github.com/ogfnsi/nsa-core/pkg/nsatype"

// SamplePath returns a source and destination STP for a generic two-site
// test path, with no labels attached.
func SamplePath() (source, dest nsatype.STP) {
	return nsatype.STP{Network: "urn:ogf:network:siteA.example:2020", Port: "port1"},
		nsatype.STP{Network: "urn:ogf:network:siteB.example:2020", Port: "port1"}
}

// SampleCriteria builds a Criteria wrapping a plain, unlabeled
// EthernetService over SamplePath's endpoints, suitable for tests that
// don't care about VLAN negotiation specifically.
func SampleCriteria() nsatype.Criteria {
	src, dst := SamplePath()
	svc, err := nsatype.NewEthernetService(src, dst, 1_000_000_000, 1500, 0, nsatype.Bidirectional, true, nil)
	if err != nil {
		panic(err)
	}
	return nsatype.Criteria{Revision: 0, ServiceDef: svc}
}
