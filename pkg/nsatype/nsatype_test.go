package nsatype

import (
	"strings"
	"testing"
	"time"

	"github.com/ogfnsi/nsa-core/pkg/label"
)

func vlanLabel(t *testing.T, text string) *label.Label {
	t.Helper()
	l, err := label.ParseString(label.EthernetVLANType, text)
	if err != nil {
		t.Fatalf("unexpected error building test label: %v", err)
	}
	return l
}

func TestSTPURNWithoutLabel(t *testing.T) {
	stp := STP{Network: "aruba.net", Port: "A1"}
	want := "urn:ogf:network:aruba.net:A1"
	if got := stp.URN(); got != want {
		t.Errorf("URN() = %q, want %q", got, want)
	}
}

func TestSTPURNWithLabel(t *testing.T) {
	stp := STP{Network: "aruba.net", Port: "A1", Labels: []*label.Label{vlanLabel(t, "1780")}}
	got := stp.URN()
	if !strings.HasPrefix(got, "urn:ogf:network:aruba.net:A1?") {
		t.Fatalf("URN() = %q, missing expected prefix", got)
	}
	if !strings.HasSuffix(got, "ethernet-vlan=1780") {
		t.Errorf("URN() = %q, expected ethernet-vlan query param", got)
	}
}

func TestSTPEqual(t *testing.T) {
	a := STP{Network: "aruba.net", Port: "A1", Labels: []*label.Label{vlanLabel(t, "1780")}}
	b := STP{Network: "aruba.net", Port: "A1", Labels: []*label.Label{vlanLabel(t, "1780")}}
	if !a.Equal(b) {
		t.Error("expected equal STPs")
	}
	c := STP{Network: "aruba.net", Port: "A2", Labels: []*label.Label{vlanLabel(t, "1780")}}
	if a.Equal(c) {
		t.Error("expected unequal STPs (different port)")
	}
}

func TestNewLinkRequiresBothLabelsOrNeither(t *testing.T) {
	if _, err := NewLink("aruba.net", "A1", "A2", []*label.Label{vlanLabel(t, "100")}, nil); err == nil {
		t.Fatal("expected error when only source labels are given")
	}
	l, err := NewLink("aruba.net", "A1", "A2", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.SourceSTP().Port != "A1" || l.DestSTP().Port != "A2" {
		t.Error("SourceSTP/DestSTP did not derive expected ports")
	}
}

func TestNewPathRejectsEmpty(t *testing.T) {
	if _, err := NewPath(nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPathSourceDest(t *testing.T) {
	l1, _ := NewLink("aruba.net", "A1", "A2", nil, nil)
	l2, _ := NewLink("aruba.net", "A2", "A3", nil, nil)
	p, err := NewPath([]Link{l1, l2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Source().Port != "A1" {
		t.Errorf("Source().Port = %q, want A1", p.Source().Port)
	}
	if p.Dest().Port != "A3" {
		t.Errorf("Dest().Port = %q, want A3", p.Dest().Port)
	}
}

func TestNewScheduleNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("TEST", 3600)
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, loc)
	end := time.Date(2026, 8, 1, 12, 0, 0, 0, loc)
	s := NewSchedule(start, end)
	if s.Start.Location() != time.UTC || s.End.Location() != time.UTC {
		t.Error("expected Schedule times to be normalized to UTC")
	}
	if !s.Start.Equal(start) {
		t.Error("expected instant to be preserved across normalization")
	}
}

func TestNewNSATrimsEndpoint(t *testing.T) {
	n := NewNSA("example.net", "  http://example.net:9080/nsi  ", "")
	if n.Endpoint != "http://example.net:9080/nsi" {
		t.Errorf("expected trimmed endpoint, got %q", n.Endpoint)
	}
}

func TestNSAURN(t *testing.T) {
	n := NewNSA("aruba.net", "http://aruba.net:9080/nsi", "")
	if got, want := n.URN(), "urn:ogf:network:aruba.net"; got != want {
		t.Errorf("URN() = %q, want %q", got, want)
	}
}

func TestNSAHostPort(t *testing.T) {
	n := NewNSA("aruba.net", "http://aruba.net:9080/nsi/cs", "")
	host, port, err := n.HostPort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host != "aruba.net" || port != 9080 {
		t.Errorf("HostPort() = (%q, %d), want (aruba.net, 9080)", host, port)
	}
}

func TestNSAHostPortMissingPortFails(t *testing.T) {
	n := NewNSA("aruba.net", "http://aruba.net/nsi/cs", "")
	if _, _, err := n.HostPort(); err == nil {
		t.Fatal("expected error for endpoint without an explicit port")
	}
}

func TestNewEthernetServiceRejectsLabeledSTPs(t *testing.T) {
	labeled := STP{Network: "aruba.net", Port: "A1", Labels: []*label.Label{vlanLabel(t, "100")}}
	plain := STP{Network: "aruba.net", Port: "A2"}
	if _, err := NewEthernetService(labeled, plain, 1000, 1500, 0, Bidirectional, false, nil); err == nil {
		t.Fatal("expected error for labeled source STP")
	}
}

func TestNewEthernetVLANServiceRequiresExactlyOneLabelEach(t *testing.T) {
	src := STP{Network: "aruba.net", Port: "A1"}
	dst := STP{Network: "aruba.net", Port: "A2", Labels: []*label.Label{vlanLabel(t, "100")}}
	if _, err := NewEthernetVLANService(src, dst, 1000, 1500, 0, Bidirectional, false, nil); err == nil {
		t.Fatal("expected error when source STP has no label")
	}

	src = STP{Network: "aruba.net", Port: "A1", Labels: []*label.Label{vlanLabel(t, "100")}}
	svc, err := NewEthernetVLANService(src, dst, 1000, 1500, 0, Bidirectional, false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Source().Port != "A1" || svc.Dest().Port != "A2" {
		t.Error("expected Source/Dest to delegate through the embedded P2PService")
	}
}

func TestNewHeaderMintsCorrelationID(t *testing.T) {
	requester := NewNSA("requester.net", "http://requester.net:9080/nsi", "")
	provider := NewNSA("provider.net", "http://provider.net:9080/nsi", "")
	h, err := NewHeader(requester, provider, nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(h.CorrelationID, URNUUIDPrefix) {
		t.Errorf("expected correlation id to start with %q, got %q", URNUUIDPrefix, h.CorrelationID)
	}
}

func TestNewHeaderPreservesSuppliedCorrelationID(t *testing.T) {
	requester := NewNSA("requester.net", "http://requester.net:9080/nsi", "")
	provider := NewNSA("provider.net", "http://provider.net:9080/nsi", "")
	h, err := NewHeader(requester, provider, nil, "", "urn:uuid:fixed-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.CorrelationID != "urn:uuid:fixed-id" {
		t.Errorf("expected supplied correlation id to be preserved, got %q", h.CorrelationID)
	}
}
