// Package config resolves the app-hook server settings.
//
// Sources, lowest priority first:
//   - built-in defaults (127.0.0.1:8080, route /app, empty value)
//   - a config file, YAML (`server:` key) or VDF (`"app-hook" { "server" {} }`)
//   - APP_HOOK_VALUE, APP_HOOK_ROUTE, APP_HOOK_PORT environment variables
//   - command line flags, applied by the caller before Validate
package config
