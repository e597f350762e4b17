// Package domain defines the Task and Session types, the repository contracts
// the stores implement, and the input validation shared by every backend.
//
// No implementation code beyond validation - just contracts.
package domain
