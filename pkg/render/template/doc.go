// Package template declares the page-level template engine contract used to
// lay out a composed form. Input fragments never go through it; they only
// support flat {{key}} substitution.
package template
