package logger

import "errors"

var (
	// ErrServiceNameIsEmpty is returned when the logger config has no service name set.
	ErrServiceNameIsEmpty = errors.New("log config service name is empty")

	// ErrAppNameIsEmpty is returned when the logger config has no app name set.
	ErrAppNameIsEmpty = errors.New("log config app name is empty")
)
