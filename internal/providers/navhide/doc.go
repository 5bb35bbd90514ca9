// Package navhide manages the navigation hide lists: which menu items a
// user has hidden globally and per tenant account.
//
// Each scope persists as one JSON file whose whole list is rewritten on
// every change. Legacy files may contain bare string entries; those are
// normalized to full items at the read boundary and nowhere else. The
// effective hidden set for a tenant is the union of the global and
// tenant lists, and a key hidden globally can never also be stored under
// a tenant.
package navhide
