// Package config loads, normalizes, and validates the reelchat configuration
// file. Secrets may be supplied through the environment instead of the TOML
// file; everything else has a working default.
package config
