package db

import (
	"fmt"
	"sync"
	"time"

	"ogflight_server/pkg/logger"

	"github.com/jackc/pgx"
	"github.com/spf13/viper"
)

// configuration :
// Defines the possible options describing how this DB object
// should try to connect to the underlying database. The values
// are retrieved from the `Database` section of the configuration
// file.
//
// The `host` references the address at which the database is
// hosted. The default value is "localhost".
//
// The `port` describes the exposed port to connect to the
// database. The default value is 5432.
//
// The `name` defines the name of the database. This value has
// to be provided by the configuration.
//
// The `user` defines the role to use to connect to the DB. It
// has to be provided by the configuration.
//
// The `password` defines the password to use to access the DB
// given the specified user. No default value is provided.
//
// The `timeout` separates two successive connection attempts
// to the DB, in seconds. The default value is 5.
//
// The `connectionsPool` defines the number of concurrent
// connections that can be issued on the underlying DB. The
// default value is 5.
type configuration struct {
	host            string
	port            int
	name            string
	user            string
	password        string
	timeout         int
	connectionsPool int
}

// DB :
// Describes a database object providing a wrapper on the pgx
// handler. Compared to the base wrapper it handles a mechanism
// to try connecting to the DB until it comes online and will
// automatically retrieve the connection parameters from the
// configuration file.
//
// The `pool` holds a reference on the connections pool. This
// value is not `nil` whenever a connection to the DB has been
// successfully established.
//
// The `lock` protects the `pool` value from concurrent
// accesses, typically while the connection is being
// re-established.
//
// The `log` allows to notify information and errors.
//
// The `config` describes the connection properties to use.
type DB struct {
	pool   *pgx.ConnPool
	lock   sync.Mutex
	log    logger.Logger
	config configuration
}

// parseConfiguration :
// Attempts to parse the configuration provided to this app to
// extract the connection parameters to use for the DB. Relies
// on default values in case some values are not set and panics
// if a mandatory value cannot be found.
//
// Returns the built configuration object.
func parseConfiguration() configuration {
	config := configuration{
		"localhost",
		5432,
		"",
		"",
		"",
		5,
		5,
	}

	if viper.IsSet("Database.Host") {
		config.host = viper.GetString("Database.Host")
	}
	if viper.IsSet("Database.Port") {
		config.port = viper.GetInt("Database.Port")
	}
	if viper.IsSet("Database.Name") {
		config.name = viper.GetString("Database.Name")
	}
	if viper.IsSet("Database.User") {
		config.user = viper.GetString("Database.User")
	}
	if viper.IsSet("Database.Password") {
		config.password = viper.GetString("Database.Password")
	}
	if viper.IsSet("Database.Timeout") {
		config.timeout = viper.GetInt("Database.Timeout")
	}
	if viper.IsSet("Database.ConnectionsPool") {
		config.connectionsPool = viper.GetInt("Database.ConnectionsPool")
	}

	if len(config.name) == 0 {
		panic(fmt.Errorf("invalid DB name fetched from configuration \"%s\"", config.name))
	}
	if len(config.user) == 0 {
		panic(fmt.Errorf("invalid DB user fetched from configuration \"%s\"", config.user))
	}
	if len(config.password) == 0 {
		panic(fmt.Errorf("invalid DB password fetched from configuration"))
	}
	if config.port <= 0 || config.port >= 1<<16 {
		panic(fmt.Errorf("invalid DB port fetched from configuration %d", config.port))
	}
	if config.connectionsPool <= 0 {
		panic(fmt.Errorf("invalid DB connections pool fetched from configuration %d", config.connectionsPool))
	}

	return config
}

// NewPool :
// Performs the creation of a new database object. The created
// object will try to connect to the database described in the
// configuration file until a connection is established. Until
// then calls to `DBExecute` or `DBQuery` will fail.
//
// The `log` allows to specify the logging device to use.
//
// Returns the created database object.
func NewPool(log logger.Logger) *DB {
	config := parseConfiguration()

	dbase := DB{
		log:    log,
		config: config,
	}

	dbase.createPoolAttempt()

	// Maintain the connection with the DB healthy in case of
	// a disconnection later on.
	ticker := time.NewTicker(time.Second * time.Duration(config.timeout))
	go func() {
		for range ticker.C {
			dbase.Healthcheck()
		}
	}()

	return &dbase
}

// createPoolAttempt :
// Used to try to connect to the database described in the
// configuration file. The connection is assigned to the
// internal attribute only if it succeeded.
//
// Returns `true` if the attempt succeeded.
func (dbase *DB) createPoolAttempt() bool {
	config := dbase.config
	dbase.log.Trace(logger.Info, "db", fmt.Sprintf("Attempting to connect to \"%s\" (user: \"%s\", host: \"%s:%d\")", config.name, config.user, config.host, config.port))

	pool, err := pgx.NewConnPool(pgx.ConnPoolConfig{
		ConnConfig: pgx.ConnConfig{
			Host:     config.host,
			Database: config.name,
			Port:     uint16(config.port),
			User:     config.user,
			Password: config.password,
		},
		MaxConnections: config.connectionsPool,
		AcquireTimeout: 0,
	})

	if err != nil {
		dbase.log.Trace(logger.Warning, "db", fmt.Sprintf("Failed to connect to DB \"%s\" (err: %v)", config.name, err))
		return false
	}

	dbase.log.Trace(logger.Info, "db", fmt.Sprintf("Connection to DB \"%s\" with username \"%s\" succeeded", config.name, config.user))

	dbase.lock.Lock()
	dbase.pool = pool
	dbase.lock.Unlock()

	return true
}

// Healthcheck :
// Used to check the health of the connection to the DB. In
// case the connection is found not to be healthy, a new
// attempt is scheduled immediately.
func (dbase *DB) Healthcheck() {
	dbIsNil := false
	var stat pgx.ConnPoolStat

	dbase.lock.Lock()
	dbIsNil = (dbase.pool == nil)
	if !dbIsNil {
		stat = dbase.pool.Stat()
	}
	dbase.lock.Unlock()

	if dbIsNil || stat.CurrentConnections == 0 {
		dbase.createPoolAttempt()
	}
}

// DBExecute :
// Attempts to perform the input query with the specified
// arguments on the internal database connection. If the
// connection has not yet been established an error is
// returned.
//
// The `query` represents the request to execute.
//
// The `args` are arguments to pass to the query.
//
// Returns the result of the query along with any errors.
func (dbase *DB) DBExecute(query string, args ...interface{}) (*pgx.CommandTag, error) {
	dbase.lock.Lock()
	defer dbase.lock.Unlock()

	if dbase.pool == nil {
		return nil, fmt.Errorf("cannot execute query on DB \"%s\" (err: connection is invalid)", dbase.config.name)
	}

	tag, err := dbase.pool.Exec(query, args...)

	return &tag, err
}

// DBQuery :
// Attempts to execute the input query with the specified
// arguments on the internal database connection. Similar to
// `DBExecute` but fetches information from the DB rather than
// modifying it.
//
// The `query` represents the request to execute.
//
// The `args` are arguments to pass to the query.
//
// Returns the rows fetched from the DB along with any errors.
func (dbase *DB) DBQuery(query string, args ...interface{}) (*pgx.Rows, error) {
	dbase.lock.Lock()
	defer dbase.lock.Unlock()

	if dbase.pool == nil {
		return nil, fmt.Errorf("cannot execute query on DB \"%s\" (err: connection is invalid)", dbase.config.name)
	}

	return dbase.pool.Query(query, args...)
}
