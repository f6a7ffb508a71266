// Package config manages user-level settings stored at ~/.sublimeavr/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the toolchain search path, the default device and language standards, and
// the Sublime Text package directories used when installing the companion
// package.
package config
