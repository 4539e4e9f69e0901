// Package services holds the shared error taxonomy for remote collaborators
// (language model, catalog) and the helpers that map those errors onto the
// HTTP surface.
package services
