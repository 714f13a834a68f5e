// Package env reads configuration from an optional .env file, falling
// back to the process environment.
package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried relative to the working directory; binaries run
// from their cmd directory reach the project root via the parent paths.
var envFiles = []string{".env", "../../.env", "../../../.env"}

var fileEnv map[string]string

// SetupEnvFile loads the first readable .env file. Running without one
// is normal in containers, where everything arrives through the
// process environment.
func SetupEnvFile() {
	for _, file := range envFiles {
		vals, err := godotenv.Read(file)
		if err == nil {
			fileEnv = vals
			return
		}
	}
	log.Print("no .env file found, using process environment only")
}

// GetEnv returns the value for key: .env file first, then the process
// environment, then def.
func GetEnv(key, def string) string {
	if val, ok := fileEnv[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// IsDev reports whether the app runs in development mode.
func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
