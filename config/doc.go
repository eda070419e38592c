// Package config loads the caching core's settings from environment
// variables, with strict ${VAR} expansion for credential indirection.
package config
