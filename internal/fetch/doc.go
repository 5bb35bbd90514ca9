// Package fetch retrieves record XML from the ERP host.
//
// The host serves an alternate XML representation of any record page when
// the URL carries xml=T. This package builds that URL, performs a single
// no-retry request with the caller's session cookie, normalizes the
// payload charset, and rejects HTML served in place of XML (login and
// error pages). It also derives the tenant id from host page URLs.
package fetch
