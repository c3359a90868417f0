package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrMissingConfig ErrorCode = "missing_configuration"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrBindFlags     ErrorCode = "bind_flags_failed"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Link errors
	ErrTransportUnavailable ErrorCode = "transport_unavailable"
	ErrConnectFailed        ErrorCode = "connect_failed"
	ErrLinkClosed           ErrorCode = "link_closed"

	// Pipeline errors
	ErrPayloadMalformed ErrorCode = "payload_malformed"
	ErrQueueFull        ErrorCode = "queue_full"
	ErrSinkPush         ErrorCode = "sink_push_failed"
	ErrSinkDisabled     ErrorCode = "sink_disabled"
	ErrSecureScheme     ErrorCode = "secure_scheme_unsupported"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:             "Internal error occurred",
	ErrInvalidArgument:      "Invalid argument provided",
	ErrAlreadyRunning:       "Another instance is already running",
	ErrInvalidConfig:        "Invalid configuration",
	ErrMissingConfig:        "Missing configuration",
	ErrReadConfig:           "Failed to read configuration",
	ErrBindFlags:            "Failed to bind flags",
	ErrInvalidLogLevel:      "Invalid log level",
	ErrInitFailed:           "Initialization failed",
	ErrShutdownFailed:       "Shutdown failed",
	ErrTransportUnavailable: "Link transport is not connected",
	ErrConnectFailed:        "Failed to connect to link transport",
	ErrLinkClosed:           "Link transport closed",
	ErrPayloadMalformed:     "Malformed link payload",
	ErrQueueFull:            "Sample queue is full",
	ErrSinkPush:             "Failed to push batch to sink",
	ErrSinkDisabled:         "Sink publisher is disabled",
	ErrSecureScheme:         "Secure-scheme sink URLs are not supported",
	ErrInitApp:              "Failed to initialize application",
	ErrMainLoop:             "Error in main loop",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
