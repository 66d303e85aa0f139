// Package api contains the HTTP layer: request/response models, handlers
// for auth, tasks, participation, and categories, and the error-to-status
// mapping that keeps internal errors out of client responses.
package api
