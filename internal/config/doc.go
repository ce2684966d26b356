// Package config loads and validates application settings from
// environment variables and optional config files: server and database
// basics, redis, JWT auth, AI provider keys and limits, and the task
// runner sizing. Components receive typed sub-structs instead of
// reading the environment themselves.
package config
