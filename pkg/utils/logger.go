// Package utils provides shared utilities.
package utils

import "go.uber.org/zap"

// NewLogger returns the process logger. Debug selects zap's development
// config, which logs console-formatted entries from debug level up; otherwise
// the production config logs JSON from info level up. The index build and
// per-query diagnostics are logged at debug.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
