// Package config loads hnfetch settings.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional config file (TOML, YAML or JSON), and HNFETCH_* environment
// variables. A .env file in the working directory is loaded into the
// environment first if present. String values may reference environment
// variables as ${VAR}; a reference to an unset variable is an error.
//
// Keys use dotted sections, for example network.max_retries, which maps to
// the HNFETCH_NETWORK_MAX_RETRIES environment variable.
//
// A Loader can watch its config file and deliver reloaded settings to a
// callback.
package config
