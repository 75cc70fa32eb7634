// Package config provides error definitions for configuration management
package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidAppName     = errors.New("invalid application name")
	ErrInvalidEnvironment = errors.New("invalid environment")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidMailboxSize = errors.New("invalid mailbox size")
	ErrInvalidSink        = errors.New("invalid sink")
)

// Configuration loading errors
var (
	ErrConfigFileNotFound = errors.New("configuration file not found")
)
