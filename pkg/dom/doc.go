// Package dom provides the small document surface the form builder runs on:
// detached fragments parsed from markup, selector queries over a live tree,
// per-node properties, and synchronous change/click style notifications.
//
// Nodes are golang.org/x/net/html nodes; selectors are matched with cascadia.
// A Document and every Element derived from it are confined to one goroutine,
// mirroring the single event loop of a browser host.
package dom
