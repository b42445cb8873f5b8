// Package task implements the process-wide generation task table. Tasks
// are held in memory for their lifetime and evicted by a configurable
// policy once terminal; the table also brokers cancellation between status
// callers and the execution unit that owns each task.
package task
