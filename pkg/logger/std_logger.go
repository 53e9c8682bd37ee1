package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// configuration :
// Provides a way to configure the way logs are displayed both
// in terms of level and of the application producing them. The
// values are retrieved from the configuration file through the
// `Logger` section; defaults apply when a key is not set.
//
// The `AppName` describes the name of the application using the
// logger. The default value is "Unknown app".
//
// The `Environment` allows to specify which configuration is
// used by the application executing the logger. Typical values
// include `production`, `development`, etc.
// The default value is "development".
//
// The `Level` is a string representing the minimum level of a
// log message in order for it to be displayed. It allows to
// filter debug messages from production environments.
// The default value is "info".
//
// The `Buffer` allows to specify the size of the internal
// buffer holding log messages. Messages are not written to the
// output directly but first stored in this buffer so that
// bursts of messages can be absorbed without blocking the
// callers.
// The default value is 500.
type configuration struct {
	AppName     string
	Environment string
	Level       string
	Buffer      int
}

// traceMessage :
// Describes a message to be enqueued by the logger. It contains
// the severity, the module producing the message and the actual
// content.
type traceMessage struct {
	level   Severity
	module  string
	content string
}

// StdLogger :
// Logger implementation writing colored log lines to the
// standard output. Messages are pushed to an internal buffered
// channel and written by a dedicated routine so that callers
// are not blocked by the underlying display as long as the
// buffer is not full.
//
// The `config` holds the settings retrieved from the
// configuration file.
//
// The `instanceID` represents the name of the instance of the
// application running the logger. It is updated each time the
// application restarts which allows to distinguish several
// instances running on a single machine.
//
// The `logChannel` receives the trace messages before they are
// written to the logging device.
//
// The `endChannel` allows to terminate the active loop which
// transmits messages from the `logChannel` to the device.
//
// The `closed` value indicates whether the logger has been
// terminated: it is protected by the `locker` and consulted
// before posting to the `logChannel`.
//
// The `waiter` allows to wait for the proper termination of the
// logging routine so that the last posted messages are written.
type StdLogger struct {
	config     configuration
	instanceID string
	minLevel   Severity
	logChannel chan traceMessage
	endChannel chan bool
	closed     bool
	locker     sync.Mutex
	waiter     sync.WaitGroup
}

// parseConfiguration :
// Used to retrieve the parameters to apply to the logger from
// the configuration file. A default configuration is provided
// to work in most cases.
//
// Returns the arguments parsed from the configuration file.
func parseConfiguration() configuration {
	config := configuration{
		"Unknown app",
		"development",
		"info",
		500,
	}

	if viper.IsSet("Logger.Name") {
		config.AppName = viper.GetString("Logger.Name")
	}
	if viper.IsSet("Logger.Environment") {
		config.Environment = viper.GetString("Logger.Environment")
	}
	if viper.IsSet("Logger.Level") {
		config.Level = viper.GetString("Logger.Level")
	}
	if viper.IsSet("Logger.Buffer") {
		config.Buffer = viper.GetInt("Logger.Buffer")
	}

	return config
}

// NewStdLogger :
// Used to create a new logger with the specified instance name.
// The created logger parses the configuration file provided by
// the environment and adapts its settings right away.
//
// The `instanceID` might be empty in which case a "local" value
// is used, which typically happens in development environments.
//
// Returns the produced logger.
func NewStdLogger(instanceID string) Logger {
	config := parseConfiguration()

	log := StdLogger{
		config:     config,
		instanceID: instanceID,
		minLevel:   fromString(config.Level),
		logChannel: make(chan traceMessage, config.Buffer),
		endChannel: make(chan bool),
	}

	if len(log.instanceID) == 0 {
		log.instanceID = "local"
	}

	log.waiter.Add(1)
	go log.performLogging()

	return &log
}

// Release :
// Used to perform the stopping of the active loop writing logs
// to the underlying device. It blocks until the last posted
// messages have been written.
func (log *StdLogger) Release() {
	log.endChannel <- false

	log.locker.Lock()
	log.closed = true
	close(log.logChannel)
	log.locker.Unlock()

	log.waiter.Wait()
}

// Trace :
// Implementation of the `Logger` interface. The message is not
// directly transmitted to the logging device but placed in the
// internal buffer so that it can be processed by the active
// logging loop. The caller is only blocked when the buffer is
// full.
//
// The `level` describes the severity of the message to log.
//
// The `module` identifies the subsystem producing the message.
//
// The `message` describes the content of the message to log.
func (log *StdLogger) Trace(level Severity, module string, message string) {
	if level < log.minLevel {
		return
	}

	trace := traceMessage{
		level,
		module,
		message,
	}

	log.locker.Lock()
	defer log.locker.Unlock()
	if !log.closed {
		log.logChannel <- trace
	}
}

// performLogging :
// Used to perform logging. This method is meant to be launched
// as a go routine and will poll the internal trace channel to
// write messages to the output device.
func (log *StdLogger) performLogging() {
	keepLogging := true

	for keepLogging {
		select {
		case keepLogging = <-log.endChannel:
		case trace := <-log.logChannel:
			log.performSingleLog(trace)
		}
	}

	// Write the messages remaining in the log channel.
	for trace := range log.logChannel {
		log.performSingleLog(trace)
	}

	log.waiter.Done()
}

// performSingleLog :
// Used to write a single trace to the output, prefixed with the
// application name, the instance, the timestamp, the severity
// and the module producing the message.
//
// The `trace` describes the message to log.
func (log *StdLogger) performSingleLog(trace traceMessage) {
	out := FormatWithBrackets(log.config.AppName, Magenta)
	out += " " + FormatWithBrackets(log.instanceID, Magenta)
	out += " " + FormatWithNoBrackets(time.Now().Format("2006-01-02 15:04:05"), Magenta)
	out += " " + trace.level.String()

	if len(trace.module) > 0 {
		out += " " + FormatWithBrackets(trace.module, Cyan)
	}

	out += " " + trace.content

	fmt.Println(out)
}
