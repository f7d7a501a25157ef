// Package history persists build run records in a SQLite database so past
// runs and their per-job outcomes can be listed after the fact.
package history
