// Package template defines the template rendering seam used by the HTML
// adapter. The pongo subpackage provides the pongo2-backed implementation.
package template
