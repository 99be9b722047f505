// Package config loads the probe configuration from a YAML file and
// environment variables. It defines the target endpoints, the optional
// forward proxy, the request timeout and the logging and report settings.
package config
