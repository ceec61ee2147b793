// Package config resolves the paths and tool choices the CLI operates on.
//
// Resolution order is defaults, then the optional TOML config file, then
// environment variables (SECRETS_DIR, SECRETS_STORE, SECRETS_IDENTITY,
// SECRETS_EDITOR). The result is an explicit Settings value handed to the
// workflows, so path state is never hidden in package globals.
package config
