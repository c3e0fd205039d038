// Package ports defines the interfaces between the flow core and its
// collaborators: platform extractors on the inside, donation storage on
// the outside. Adapters implement these; the core only depends on the
// contracts.
package ports
