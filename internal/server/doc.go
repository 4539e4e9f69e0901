// Package server exposes the recommendation engine over HTTP: a chat
// endpoint, a title detail proxy, and a health probe. Requests are tagged
// with a generated id that flows through logs and audit rows.
package server
