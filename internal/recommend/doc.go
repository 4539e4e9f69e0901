// Package recommend implements the query-synthesis and result-refinement
// pipeline: classify a user message, synthesize a structured catalog query,
// execute it against the discovery endpoint, and summarize the retrieved set
// back into grounded natural language.
//
// Every remote failure inside the pipeline degrades to a component-local
// default (`other` classification, empty query, empty item list, apology
// text) so a turn always produces a response. The only hard failure is an
// empty message history.
package recommend
