// Package httpserver runs an http.Server with environment-driven
// configuration, OS signal handling and graceful shutdown.
package httpserver
