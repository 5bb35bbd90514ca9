package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	hostPattern   = regexp.MustCompile(`^https://[^/]*\.netsuite\.com/`)
	tenantPattern = regexp.MustCompile(`^([^.]+)\.app\.netsuite\.com$`)
)

// IsHostPage reports whether a URL points at the ERP host.
func IsHostPage(pageURL string) bool {
	return hostPattern.MatchString(pageURL)
}

// HasRecordID reports whether a page URL carries a standalone id query
// parameter, the marker of a record page.
func HasRecordID(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return u.Query().Has("id")
}

// XMLURL appends xml=T to a record page URL unless already present.
func XMLURL(pageURL string) string {
	if strings.Contains(pageURL, "xml=T") {
		return pageURL
	}
	sep := "?"
	if strings.Contains(pageURL, "?") {
		sep = "&"
	}
	return pageURL + sep + "xml=T"
}

// TenantID derives the account identifier from a host page URL. Only
// <account>.app.netsuite.com hostnames carry one; anything else returns
// "", which scopes navigation hiding to global only.
func TenantID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	m := tenantPattern.FindStringSubmatch(u.Hostname())
	if m == nil {
		return ""
	}
	return m[1]
}
