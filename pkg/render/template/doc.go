// Package template defines the renderer-agnostic template interface shared by
// the editor widget and the dev server pages.
package template
