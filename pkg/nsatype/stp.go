// Package nsatype holds the connection service's wire-level data model:
// service termination points, links, paths, schedules, service
// definitions, NSA identities, and the request/reply header.
package nsatype

import (
	"fmt"
	"strings"

	"github.com/ogfnsi/nsa-core/pkg/label"
)

// OGFPrefix is prepended to an NSA identity or network name to form its URN.
const OGFPrefix = "urn:ogf:network:"

// STP is a Service Termination Point: an addressable port on a network,
// optionally carrying one or more labels restricting which VLAN/wavelength
// values are negotiable there.
type STP struct {
	Network string        `json:"network"`
	Port    string        `json:"port"`
	Labels  []*label.Label `json:"labels,omitempty"`
}

// URN renders the STP's canonical identifier, appending a label query
// parameter when exactly one label is present.
func (s STP) URN() string {
	urn := fmt.Sprintf("%s%s:%s", OGFPrefix, s.Network, s.Port)
	if len(s.Labels) == 1 {
		urn += "?" + labelQueryParam(s.Labels[0])
	}
	return urn
}

func labelQueryParam(l *label.Label) string {
	typ := l.Type()
	if idx := strings.LastIndexByte(typ, '#'); idx >= 0 {
		typ = typ[idx+1:]
	}
	return fmt.Sprintf("%s=%s", typ, l.Value())
}

// Equal reports structural equality between two STPs.
func (s STP) Equal(other STP) bool {
	if s.Network != other.Network || s.Port != other.Port {
		return false
	}
	if len(s.Labels) != len(other.Labels) {
		return false
	}
	for i := range s.Labels {
		if !s.Labels[i].Equal(other.Labels[i]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (s STP) String() string {
	if len(s.Labels) == 0 {
		return fmt.Sprintf("<STP %s %s>", s.Network, s.Port)
	}
	parts := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		parts[i] = l.String()
	}
	return fmt.Sprintf("<STP %s %s %s>", s.Network, s.Port, strings.Join(parts, ","))
}
