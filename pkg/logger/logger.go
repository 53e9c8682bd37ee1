package logger

// Logger :
// Describes a common interface used for logging purposes.
// A single method is needed to allow the logging of some
// messages based on a content, a severity and the module
// producing the message.
//
// The `Trace` allows to log a message with the specified
// level for the specified module.
type Logger interface {
	Trace(level Severity, module string, message string)
}
