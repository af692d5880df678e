// Package preflight checks the API endpoint before a run: the TLS
// certificate of an https base URL and whether the credential is present.
package preflight
