// Package config resolves the server configuration once at process start.
// Precedence: positional CLI argument, then TUNNELCHECK_PORT, then the
// default. Invalid values never abort startup; they warn and fall back.
package config

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/viper"
)

const (
	DefaultPort = 8080
	envPrefix   = "tunnelcheck"
)

// ServerConfig is immutable after startup.
type ServerConfig struct {
	Host string
	Port int
}

// Resolve builds the ServerConfig from the positional args and environment.
// Warnings about ignored invalid values are written to warn.
func Resolve(args []string, warn io.Writer) ServerConfig {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("port", strconv.Itoa(DefaultPort))

	port := DefaultPort
	if raw := v.GetString("port"); raw != "" {
		p, err := parsePort(raw)
		if err != nil {
			fmt.Fprintf(warn, "Invalid TUNNELCHECK_PORT %q. Using default port %d.\n", raw, DefaultPort)
		} else {
			port = p
		}
	}

	if len(args) > 0 {
		p, err := parsePort(args[0])
		if err != nil {
			fmt.Fprintf(warn, "Invalid port number %q. Using default port %d.\n", args[0], port)
		} else {
			port = p
		}
	}

	return ServerConfig{Port: port}
}

func parsePort(raw string) (int, error) {
	p, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	if p < 0 || p > 65535 {
		return 0, fmt.Errorf("port out of range: %d", p)
	}
	return p, nil
}
