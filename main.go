// Package main provides the linklint CLI entrypoint.
//
// linklint checks the <a> elements of an HTML file: empty and nameless
// links, missing anchors, unreachable or redirected URLs, and external links
// that do not announce themselves as such.
//
// Usage:
//
//	linklint [flags] <file.html>
package main

func main() {
	Execute()
}
