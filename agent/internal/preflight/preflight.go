package preflight

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"math"
	"net"
	"net/url"
	"time"

	"github.com/vitalscan/vitalscan/agent/internal/config"
)

const (
	dialTimeout = 10 * time.Second

	// expiringDays is how close to expiry a certificate is reported as
	// "expiring".
	expiringDays = 30
)

// Certificate states.
const (
	CertValid       = "valid"
	CertExpiring    = "expiring"
	CertExpired     = "expired"
	CertUnreachable = "unreachable"
	CertNone        = "none"
)

// CertStatus describes the leaf certificate served by the API.
type CertStatus struct {
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	NotAfter string `json:"not_after,omitempty"`
	Issuer   string `json:"issuer,omitempty"`
	DaysLeft int    `json:"days_left,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report is the result of Run.
type Report struct {
	BaseURL     string     `json:"base_url"`
	KeyEnv      string     `json:"key_env"`
	KeyPresent  bool       `json:"key_present"`
	Certificate CertStatus `json:"certificate"`
}

// OK reports whether a run can be expected to authenticate over a usable
// connection.
func (r *Report) OK() bool {
	switch r.Certificate.Status {
	case CertExpired, CertUnreachable:
		return false
	}
	return r.KeyPresent
}

// Run checks api. roots overrides the system trust store and may be nil.
func Run(ctx context.Context, api config.APIConfig, roots *x509.CertPool) *Report {
	return &Report{
		BaseURL:     api.BaseURL,
		KeyEnv:      api.Auth.KeyEnv,
		KeyPresent:  api.Auth.Key() != "",
		Certificate: CheckCert(ctx, api.BaseURL, roots, time.Now()),
	}
}

// CheckCert dials the TLS endpoint of endpoint and inspects the leaf
// certificate. Plain-HTTP endpoints have nothing to inspect and report
// CertNone.
//
// The chain is verified after the handshake at the earlier of now and the
// leaf's NotAfter, so an expired but otherwise trusted certificate reports
// CertExpired. Untrusted chains and hostname mismatches report
// CertUnreachable.
func CheckCert(ctx context.Context, endpoint string, roots *x509.CertPool, now time.Time) CertStatus {
	cs := CertStatus{Endpoint: endpoint, Status: CertNone}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != "https" {
		return cs
	}

	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "443")
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			ServerName:         u.Hostname(),
			InsecureSkipVerify: true, //nolint:gosec // verified below against roots
		},
	}
	netConn, err := dialer.DialContext(dialCtx, "tcp", host)
	if err != nil {
		cs.Status = CertUnreachable
		cs.Error = err.Error()
		return cs
	}
	conn := netConn.(*tls.Conn)
	defer conn.Close()

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		cs.Status = CertUnreachable
		return cs
	}
	leaf := peerCerts[0]

	if err := verifyChain(peerCerts, roots, u.Hostname(), now); err != nil {
		cs.Status = CertUnreachable
		cs.Error = err.Error()
		return cs
	}

	daysLeft := leaf.NotAfter.Sub(now).Hours() / 24

	cs.NotAfter = leaf.NotAfter.UTC().Format(time.RFC3339)
	cs.Issuer = leaf.Issuer.CommonName
	if cs.Issuer == "" && len(leaf.Issuer.Organization) > 0 {
		cs.Issuer = leaf.Issuer.Organization[0]
	}
	cs.DaysLeft = int(math.Floor(daysLeft))

	switch {
	case daysLeft <= 0:
		cs.Status = CertExpired
	case daysLeft <= expiringDays:
		cs.Status = CertExpiring
	default:
		cs.Status = CertValid
	}
	return cs
}

// verifyChain checks certs[0] against roots (nil means the system pool),
// using the rest of certs as intermediates.
func verifyChain(certs []*x509.Certificate, roots *x509.CertPool, dnsName string, now time.Time) error {
	leaf := certs[0]
	at := now
	if at.After(leaf.NotAfter) {
		at = leaf.NotAfter
	}
	intermediates := x509.NewCertPool()
	for _, c := range certs[1:] {
		intermediates.AddCert(c)
	}
	_, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		DNSName:       dnsName,
		CurrentTime:   at,
	})
	return err
}
