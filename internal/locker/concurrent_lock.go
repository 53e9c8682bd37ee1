package locker

import (
	"fmt"
	"sync"

	"ogflight_server/pkg/logger"

	"github.com/spf13/viper"
)

// ConcurrentLocker :
// Provides a pool of named locks allowing to serialize
// the operations performed on a single game element (in
// our case a body, identified by its identifier) while
// letting operations on distinct elements proceed in
// parallel.
// Dispatching a fleet from a planet, recalling one of
// its flights or resolving an event targeting it all
// mutate the same rows so only one of these operations
// should touch a given body at any time. Locking the
// whole server for that would kill concurrency though,
// and creating one mutex per body would make the memory
// grow with the universe. Instead a fixed pool of locks
// is maintained: a client acquires a lock for a named
// resource and shares it with any other client asking
// for the same name while the lock is alive.
//
// The `locker` protects the internal state of the pool.
//
// The `locks` defines the finite set of locks that can
// be distributed to clients. Once all of them are bound
// to resources the `Acquire` method blocks.
//
// The `availableLocks` lists the indices of the locks
// that are not currently bound to any resource.
//
// The `registered` maps a resource name to the index
// of the lock currently serving it, so that clients
// asking for the same resource share the lock.
//
// The `cout` allows to notify information about the
// internal state of the pool.
type ConcurrentLocker struct {
	locker         sync.Mutex
	locks          []*Lock
	availableLocks chan int
	registered     map[string]int
	cout           logger.Logger
}

// Lock :
// Protects the access to a single resource. Clients
// sharing the same resource share this object and
// serialize through its `Lock` method.
//
// The `id` defines the index of this lock in the pool,
// or a negative value when the lock is not in use.
//
// The `res` defines the resource currently bound to
// this lock.
//
// The `use` counts the clients currently holding a
// reference to this lock. The pool uses it to decide
// when the lock can be returned to the free list.
//
// The `waiter` holds at most one token: taking it
// locks the resource, putting it back releases it.
type Lock struct {
	id     int
	res    string
	use    int
	waiter chan struct{}
}

// configuration :
// Regroups the customizable properties of the pool.
//
// The `LockCount` defines how many locks can be bound
// to resources before `Acquire` becomes blocking. The
// default value is `10`.
type configuration struct {
	LockCount int
}

// parseConfiguration :
// Fetches the pool properties from the configuration
// file provided to the server.
//
// Returns the parsed configuration where all non-set
// properties have their default values.
func parseConfiguration() configuration {
	config := configuration{
		LockCount: 10,
	}

	if viper.IsSet("Concurrent.LockCount") {
		config.LockCount = viper.GetInt("Concurrent.LockCount")
	}

	return config
}

// NewConcurrentLocker :
// Creates a new pool with a size retrieved from the
// configuration provided to the server.
//
// The `log` will be assigned as the internal logging
// mean for this locker.
//
// Returns the created concurrent locker.
func NewConcurrentLocker(log logger.Logger) *ConcurrentLocker {
	config := parseConfiguration()

	allLocks := make([]*Lock, config.LockCount)
	ids := make(chan int, config.LockCount)

	for id := range allLocks {
		allLocks[id] = &Lock{
			id:     -1,
			res:    "",
			use:    0,
			waiter: make(chan struct{}, 1),
		}
		allLocks[id].waiter <- struct{}{}

		ids <- id
	}

	cl := ConcurrentLocker{
		locker:         sync.Mutex{},
		locks:          allLocks,
		availableLocks: ids,
		registered:     make(map[string]int),
		cout:           log,
	}

	return &cl
}

// Acquire :
// Used to obtain a lock for the specified resource. In
// case a lock is already bound to the resource it is
// shared with the caller, otherwise a free lock from
// the pool is bound to it. When no lock is free this
// call blocks until another resource releases one.
//
// The `resource` defines the name of the resource for
// which a lock should be acquired.
//
// Returns the lock acquired for this resource.
func (cl *ConcurrentLocker) Acquire(resource string) *Lock {
	var l *Lock

	// Share the existing lock if the resource is already
	// served by one.
	func() {
		cl.locker.Lock()
		defer cl.locker.Unlock()

		id, ok := cl.registered[resource]
		if ok {
			l = cl.locks[id]
			l.use++

			cl.cout.Trace(logger.Debug, "locker", fmt.Sprintf("Adding user to resource \"%s\" (id: %d, usage: %d, available: %d)", l.res, l.id, l.use, len(cl.availableLocks)))
		}
	}()

	if l != nil {
		return l
	}

	// Blocks until a lock is free.
	id := <-cl.availableLocks

	func() {
		cl.locker.Lock()
		defer cl.locker.Unlock()

		cl.registered[resource] = id

		l = cl.locks[id]
		l.id = id
		l.res = resource
		l.use++

		cl.cout.Trace(logger.Debug, "locker", fmt.Sprintf("Creating locker on \"%s\" (id: %d, available: %d)", l.res, l.id, len(cl.availableLocks)))
	}()

	return l
}

// Release :
// Used to give back the lock provided in input. The
// lock is returned to the pool only when no other
// client is still referencing it.
//
// The `lock` defines the lock to release. If this
// value is `nil` nothing happens.
func (cl *ConcurrentLocker) Release(lock *Lock) {
	if lock == nil {
		return
	}

	cl.locker.Lock()
	defer cl.locker.Unlock()

	lock.use--

	if lock.use > 0 {
		return
	}

	// Nobody is referencing this lock anymore: unbind it
	// from its resource and return it to the free list.
	cl.cout.Trace(logger.Debug, "locker", fmt.Sprintf("Releasing locker on \"%s\" at index %d (available: %d)", lock.res, lock.id, len(cl.availableLocks)))

	delete(cl.registered, lock.res)
	cl.availableLocks <- lock.id

	lock.id = -1
	lock.res = ""
}

// Lock :
// Blocks until the caller is the only client accessing
// the resource secured by this object.
func (l *Lock) Lock() {
	<-l.waiter
}

// Release :
// Releases this lock so that other clients can access
// the resource protected by it.
//
// Returns an error in case the lock was not held.
func (l *Lock) Release() error {
	if len(l.waiter) > 0 {
		return fmt.Errorf("cannot release locker on resource, seems already released")
	}

	l.waiter <- struct{}{}

	return nil
}
