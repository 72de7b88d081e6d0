package nsatype

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ogfnsi/nsa-core/pkg/errs"
)

// NSA identifies a network service agent: a peer speaking the connection
// service protocol, or this agent itself.
type NSA struct {
	Identity    string
	Endpoint    string
	ServiceType string
}

// NewNSA builds an NSA, trimming surrounding whitespace from the endpoint.
func NewNSA(identity, endpoint, serviceType string) NSA {
	return NSA{Identity: identity, Endpoint: strings.TrimSpace(endpoint), ServiceType: serviceType}
}

// URN renders the NSA's canonical identifier.
func (n NSA) URN() string {
	return OGFPrefix + n.Identity
}

// HostPort parses the endpoint URL's host and port.
func (n NSA) HostPort() (string, int, error) {
	u, err := url.Parse(n.Endpoint)
	if err != nil {
		return "", 0, &errs.PayloadError{Detail: fmt.Sprintf("NSA endpoint %q is not a valid URL: %v", n.Endpoint, err)}
	}
	host := u.Hostname()
	portStr := u.Port()
	if host == "" || portStr == "" {
		return "", 0, &errs.PayloadError{Detail: fmt.Sprintf("NSA endpoint %q does not specify host:port", n.Endpoint)}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, &errs.PayloadError{Detail: fmt.Sprintf("NSA endpoint %q has a non-numeric port", n.Endpoint)}
	}
	return host, port, nil
}

// String implements fmt.Stringer.
func (n NSA) String() string {
	return fmt.Sprintf("<NetworkServiceAgent %s>", n.Identity)
}
