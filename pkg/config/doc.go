// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env with optional .env file support
// via github.com/joho/godotenv.
//
// Each configuration type is parsed exactly once per process and cached,
// which keeps configuration immutable after startup and makes repeated
// Load calls from different components cheap.
package config
