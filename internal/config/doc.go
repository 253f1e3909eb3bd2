// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Environment variables use the AGRO_ prefix, so server.port is
// read from AGRO_SERVER_PORT.
package config
