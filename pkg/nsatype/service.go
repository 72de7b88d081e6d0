package nsatype

import (
	"github.com/ogfnsi/nsa-core/pkg/errs"
	"github.com/ogfnsi/nsa-core/pkg/label"
)

// Directionality values for a P2P service.
const (
	Bidirectional = "Bidirectional"
	Unidirectional = "Unidirectional"
)

// ServiceDefinition is the sealed interface implemented by the service
// definition variants below. It exists so Criteria can hold any of them
// without resorting to an empty interface.
type ServiceDefinition interface {
	isServiceDefinition()
	Source() STP
	Dest() STP
}

// P2PService is the base point-to-point service definition.
type P2PService struct {
	Capacity       uint64
	Directionality string
	Symmetric      bool
	SrcSTP, DstSTP STP
	ERO            []STP
}

func (P2PService) isServiceDefinition() {}

// Source returns the service's source STP.
func (s P2PService) Source() STP { return s.SrcSTP }

// Dest returns the service's destination STP.
func (s P2PService) Dest() STP { return s.DstSTP }

// EthernetService is a P2P service whose endpoints must not themselves
// carry labels — label negotiation happens one layer up, in
// EthernetVLANService.
type EthernetService struct {
	P2PService
	MTU       uint32
	BurstSize uint32
}

// NewEthernetService builds an EthernetService, rejecting STPs that carry
// labels.
func NewEthernetService(src, dst STP, capacity uint64, mtu, burstSize uint32, directionality string, symmetric bool, ero []STP) (EthernetService, error) {
	if len(src.Labels) != 0 {
		return EthernetService{}, &errs.PayloadError{Detail: "source STP must not specify labels in EthernetService"}
	}
	if len(dst.Labels) != 0 {
		return EthernetService{}, &errs.PayloadError{Detail: "destination STP must not specify labels in EthernetService"}
	}
	return EthernetService{
		P2PService: P2PService{
			Capacity:       capacity,
			Directionality: directionality,
			Symmetric:      symmetric,
			SrcSTP:         src,
			DstSTP:         dst,
			ERO:            ero,
		},
		MTU:       mtu,
		BurstSize: burstSize,
	}, nil
}

// EthernetVLANService is an EthernetService whose endpoints must each
// carry exactly one Ethernet-VLAN label.
type EthernetVLANService struct {
	EthernetService
}

// NewEthernetVLANService builds an EthernetVLANService, requiring exactly
// one label of type label.EthernetVLANType on each endpoint.
func NewEthernetVLANService(src, dst STP, capacity uint64, mtu, burstSize uint32, directionality string, symmetric bool, ero []STP) (EthernetVLANService, error) {
	if len(src.Labels) != 1 {
		return EthernetVLANService{}, &errs.PayloadError{Detail: "source STP must specify exactly one label for EthernetVLANService"}
	}
	if len(dst.Labels) != 1 {
		return EthernetVLANService{}, &errs.PayloadError{Detail: "destination STP must specify exactly one label for EthernetVLANService"}
	}
	if src.Labels[0].Type() != label.EthernetVLANType {
		return EthernetVLANService{}, &errs.PayloadError{Detail: "source STP label type must be the Ethernet-VLAN type for EthernetVLANService"}
	}
	if dst.Labels[0].Type() != label.EthernetVLANType {
		return EthernetVLANService{}, &errs.PayloadError{Detail: "destination STP label type must be the Ethernet-VLAN type for EthernetVLANService"}
	}
	return EthernetVLANService{
		EthernetService: EthernetService{
			P2PService: P2PService{
				Capacity:       capacity,
				Directionality: directionality,
				Symmetric:      symmetric,
				SrcSTP:         src,
				DstSTP:         dst,
				ERO:            ero,
			},
			MTU:       mtu,
			BurstSize: burstSize,
		},
	}, nil
}

// Criteria bundles a reservation's revision number, schedule, and service
// definition.
type Criteria struct {
	Revision   int
	Schedule   Schedule
	ServiceDef ServiceDefinition
}

// WithEndpoints returns a copy of c whose service definition's source and
// destination STPs are replaced by src and dst, leaving capacity,
// directionality, and every other field untouched. Used by a sub-connection
// to restrict its parent's criteria down to its own pair of endpoints
// before issuing a reservation downstream.
func (c Criteria) WithEndpoints(src, dst STP) (Criteria, error) {
	restricted, err := withEndpoints(c.ServiceDef, src, dst)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Revision: c.Revision, Schedule: c.Schedule, ServiceDef: restricted}, nil
}

func withEndpoints(def ServiceDefinition, src, dst STP) (ServiceDefinition, error) {
	switch d := def.(type) {
	case EthernetVLANService:
		d.SrcSTP, d.DstSTP = src, dst
		return NewEthernetVLANService(d.SrcSTP, d.DstSTP, d.Capacity, d.MTU, d.BurstSize, d.Directionality, d.Symmetric, d.ERO)
	case EthernetService:
		d.SrcSTP, d.DstSTP = src, dst
		return NewEthernetService(d.SrcSTP, d.DstSTP, d.Capacity, d.MTU, d.BurstSize, d.Directionality, d.Symmetric, d.ERO)
	case P2PService:
		d.SrcSTP, d.DstSTP = src, dst
		return d, nil
	default:
		return nil, &errs.PayloadError{Detail: "unrecognized service definition type"}
	}
}
