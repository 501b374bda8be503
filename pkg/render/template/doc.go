// Package template defines the renderer-agnostic template contract the
// output renderers build on, with engine adapters in subpackages.
package template
