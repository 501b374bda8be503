// Package catalog loads published intake templates from files, fs.FS
// bundles, or HTTP endpoints, and adapts them to the engine's
// template-listing collaborator. It also imports templates from OpenAPI
// operation schemas.
package catalog
