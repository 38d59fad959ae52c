// Package template defines the template engine seam renderers depend on. The
// pongo2 implementation lives in the gotemplate sub-package.
package template
