// Package domain contains the core business entity of the application, the
// Task, together with the partial-update shape and the validation error type.
// It has no knowledge of persistence or transport.
package domain
