// Package env holds the environment variable naming scheme
// shared across subcommands
package env

const (
	// Prefix is the prefix for all service env variables
	Prefix = "TASAS"

	// DBURLSuffix is the Postgres connection string variable
	DBURLSuffix = "_DB_URL"
)
