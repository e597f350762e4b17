// Package app is the use-case layer: it validates requests, stamps timestamps
// and drives the task and session repositories.
package app
