// Package inputs manages the live input instances of a form.
//
// A Manager renders input types from a template registry into a container
// element, keeps their names unique, propagates edits, and projects the
// container into an ordered JSON list of records that can be loaded back.
//
// The Manager is bound to a single dom.Document and, like the document, is
// not safe for concurrent use: every call and every event handler is expected
// to run on the host's event loop.
package inputs
