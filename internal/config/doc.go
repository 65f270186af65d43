// Package config loads and validates pwf configuration.
//
// Configuration comes from a TOML file (default ~/.config/pwf/config.toml)
// with the archive root overridable through the PWF_ROOT environment
// variable; a .env file next to the working directory is honored. The root
// path is threaded explicitly through every component constructor instead of
// being read from ambient process state.
package config
