// Package store defines the persistence contracts for usage records,
// generated content, service configurations, usage limits, and lessons,
// along with the shared error taxonomy and transaction helper. Keeping
// the interfaces here lets the generation and usage services stay
// independent of the postgres implementations.
package store
