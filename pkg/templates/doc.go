// Package templates loads HTML <template> fragments from files, fs.FS
// entries, or URLs and keeps them in two registries: input types, which render
// a single editable control, and plain templates used for rows, the setup
// panel, and optional-field editors.
//
// Template metadata is declared through data-* attributes. data-validate
// selects validators from a closed set of tags and data-optionalfields lists
// the auxiliary attributes an input type supports; neither is evaluated as
// code.
package templates
