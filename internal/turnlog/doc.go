// Package turnlog persists an audit row per served conversational turn in a
// local SQLite database. Rows carry the routed intent, the synthesized query,
// and timing, never the conversation text itself.
package turnlog
