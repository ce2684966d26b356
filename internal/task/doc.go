// Package task runs background jobs for the service, chiefly AI content
// generation kicked off by the async API endpoints. The runner persists
// every task through a TaskStore, feeds workers from a bounded queue, and
// on startup requeues work that a previous process left pending or
// stranded in the processing state.
package task
