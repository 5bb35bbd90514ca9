// Package navtree extracts the host's navigation menu tree from page
// HTML.
//
// Built on specialized libraries:
//   - goquery: CSS selector walking of menuitem anchors
//   - htmlquery: XPath check for navigation containers
//   - bluemonday: menu label sanitization
//   - chardet: character encoding detection
package navtree
