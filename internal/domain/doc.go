// Package domain holds the entities the generation subsystem revolves
// around: users and roles, lessons, service kinds and their configs,
// usage records and limits, and generated content with its review
// workflow. Constructors validate on the way in so stores and services
// can trust the values they are handed.
package domain
