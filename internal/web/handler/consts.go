package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// ErrNilADFatalLogMsg is used if the app or deps pointer is nil.
	ErrNilADFatalLogMsg = "app or deps is nil"
)
