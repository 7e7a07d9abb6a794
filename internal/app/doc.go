// Package app provides the application service layer.
//
// Orchestrates one use case: turning a free-text query into a ranked expert
// list. Sits between HTTP handlers and the retrieval, scoring, and caching
// collaborators. Depends on interfaces, not concrete implementations.
package app
