// Package api implements the HTTP surface: generation endpoints, usage
// reporting, content review, and health. Handlers validate requests,
// call into the application services, and translate their errors to
// status codes, so transport concerns never leak inward.
package api
