// Package config provides environment-based configuration.
//
// Loads values from the process environment, applies defaults, and validates
// required fields. Numeric scoring knobs are parsed and range-checked here so
// the scoring pipeline can treat its Config as trusted.
package config
