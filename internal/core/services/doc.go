// Package services holds the engine behind the driving port: it
// orchestrates extraction, chunking, embedding, retrieval and answer
// generation over the driven ports, and publishes every state change
// as an event for the interfaces to render.
//
// The engine runs one mutating task at a time; concurrent requests
// fail fast instead of queueing.
package services
