package background

import (
	"fmt"
	"sync"
	"time"

	"ogflight_server/pkg/logger"
)

// OperationFunc :
// Defines an operation that can be associated to a process
// object. It takes no argument and returns any error along
// with a status indicating whether it could be executed
// successfully.
type OperationFunc func() (bool, error)

// Process :
// Defines a repeating job spawning a go routine executing
// the provided operation at a fixed interval. The user can
// specify whether the operation should be retried in case
// of a failure.
//
// The `interval` defines the duration between two calls of
// the operation by this process.
//
// The `retryInterval` defines the interval to wait in case
// the operation fails and the retry flag is set. The
// default value is 1 second.
//
// The `operation` defines the function to be executed by
// the process.
//
// The `retry` defines whether the operation should be
// rescheduled immediately in case it fails.
//
// The `log` defines a way for this process to notify
// information and failures to the user.
//
// The `module` defines a string identifying the function
// attached to this process to make logs more relevant.
//
// The `lock` protects concurrent accesses to the internal
// variables.
//
// The `running` defines whether or not the main processing
// loop is running.
//
// The `termination` is a channel used to terminate the
// execution of the main processing loop.
//
// The `waiter` allows to wait for this process to complete
// before returning from the `Stop` function.
type Process struct {
	interval      time.Duration
	retryInterval time.Duration
	operation     OperationFunc
	retry         bool
	log           logger.Logger
	module        string

	lock        sync.Mutex
	running     bool
	termination chan bool
	waiter      sync.WaitGroup
}

// ErrAlreadyRunning : Indicates that this process is
// already running and cannot be started again.
var ErrAlreadyRunning = fmt.Errorf("unable to start already running process")

// ErrInvalidOperation : Indicates that the operation
// associated to this process is not valid.
var ErrInvalidOperation = fmt.Errorf("invalid operation to start process")

// NewProcess :
// Defines a new process object with the specified interval
// and logger.
//
// The `interval` defines the time interval between two
// consecutive calls to the operation.
//
// The `log` defines the logger to use to notify info and
// errors.
//
// Returns the built object.
func NewProcess(interval time.Duration, log logger.Logger) *Process {
	return &Process{
		interval:      interval,
		retryInterval: 1 * time.Second,
		log:           log,
		termination:   make(chan bool, 1),
	}
}

// WithModule :
// Assigns a new string as the module name for this process.
//
// The `module` defines the name of the module to assign to
// this object.
//
// Returns this process to allow chain calling.
func (p *Process) WithModule(module string) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.module = module

	return p
}

// WithRetry :
// Defines that this process should reschedule the operation
// if it fails until it succeeds.
//
// Returns this process to allow chain calling.
func (p *Process) WithRetry() *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retry = true

	return p
}

// WithRetryInterval :
// Defines a new retry interval for the time to wait when
// the operation fails to execute.
//
// The `interval` defines the retry interval.
//
// Returns this process to allow chain calling.
func (p *Process) WithRetryInterval(interval time.Duration) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retryInterval = interval

	return p
}

// WithOperation :
// Defines the core processing function to execute when
// needed.
//
// The `operation` defines the processing function to
// execute at each interval.
//
// Returns this process to allow chain calling.
func (p *Process) WithOperation(operation OperationFunc) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.operation = operation

	return p
}

// Stop :
// Used to indicate the termination of the active loop for
// this process. It prevents any further execution of the
// operation and waits for the loop to terminate.
func (p *Process) Stop() {
	p.lock.Lock()
	running := p.running
	p.lock.Unlock()

	if !running {
		return
	}

	p.termination <- false

	p.waiter.Wait()
}

// Start :
// Used to start the process associated with this object.
// The operation is checked for validity otherwise an error
// is returned.
//
// Returns any error.
func (p *Process) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.operation == nil {
		return ErrInvalidOperation
	}

	p.running = true
	p.waiter.Add(1)

	go p.activeLoop()

	return nil
}

// activeLoop :
// Main processing loop for this object. It sleeps for the
// required period of time and executes the attached
// operation.
func (p *Process) activeLoop() {
	ticker := time.NewTicker(p.interval)

	defer func() {
		err := recover()
		if err != nil {
			p.log.Trace(logger.Critical, p.module, fmt.Sprintf("Recovered from error in process (err: %v)", err))
		}

		ticker.Stop()

		p.lock.Lock()
		p.running = false
		p.lock.Unlock()

		p.waiter.Done()
	}()

	active := true

	for active {
		select {
		case active = <-p.termination:
		case <-ticker.C:
			err := p.execute()
			if err != nil {
				p.log.Trace(logger.Error, p.module, fmt.Sprintf("Caught error while executing process (err: %v)", err))
			}
		}
	}
}

// execute :
// Wrapper function allowing to execute the operation bound
// to this process. The operation is retried as long as it
// does not succeed based on the internal flag.
//
// Returns any error.
func (p *Process) execute() error {
	success := false
	var err error

	for !success {
		success, err = p.operation()

		if err != nil {
			p.log.Trace(logger.Error, p.module, fmt.Sprintf("Caught error while executing process (err: %v)", err))
		}

		if !p.retry {
			break
		}

		if !success {
			p.log.Trace(logger.Verbose, p.module, fmt.Sprintf("Failed to execute process, retrying in %v", p.retryInterval))
			time.Sleep(p.retryInterval)
		}
	}

	return err
}
