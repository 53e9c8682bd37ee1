package arguments

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// AppMetadata :
// Describes some properties used to identify the current
// instance of the application. Most of this information is
// used during the logging process to provide some context
// to messages and to distinguish among running instances.
//
// The `InstanceID` describes an identifier of the current
// instance of the server. It is generated at runtime and
// is meant to be unique and change upon restart of the
// application on the same machine.
// The default value is automatically generated.
//
// The `Environment` is a string describing the configuration
// used to start this application. Typical values include
// `development`, `production`, etc.
// The default value is "unknown".
//
// The `Port` specifies on which port the end points defined
// by the app can be accessed.
// The default value is 3000.
type AppMetadata struct {
	InstanceID  string `json:"instance_id"`
	Environment string `json:"environment"`
	Port        int
}

// Parse :
// Used to parse the app arguments and produce the
// corresponding metadata. The configuration file is read
// through viper so that the rest of the application can
// fetch its own sections from it (database connection,
// logging, game constants).
//
// The `configFile` is a string describing the configuration
// file provided by the runtime of the application, without
// its extension.
//
// Returns the built application's properties.
func Parse(configFile string) AppMetadata {
	// Allow environment variables to override the values of
	// the configuration file.
	viper.SetEnvPrefix("ENV")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	viper.SetConfigName(configFile)

	// Look for the config in the working directory and in the
	// common `data/config` directory.
	viper.AddConfigPath(".")
	viper.AddConfigPath("data/config")

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("could not parse input configuration \"%s\" (err: %v)", configFile, err))
	}

	metadata := AppMetadata{
		uuid.New().String(),
		"unknown",
		3000,
	}

	if len(configFile) > 0 {
		metadata.Environment = configFile
	}
	if viper.IsSet("App.Port") {
		metadata.Port = viper.GetInt("App.Port")
	}

	return metadata
}
