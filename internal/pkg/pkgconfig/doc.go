// Package pkgconfig provides a small abstraction for reading configuration values.
//
// The application expects config values to come from a concrete implementation
// (for example Viper). Business code should depend on the Config interface so it
// stays easy to test and does not care where values come from (file, env, etc).
//
// Every key can be overridden by an environment variable prefixed with
// TXLEDGER_, where dots become underscores (ledger.store.shards is read from
// TXLEDGER_LEDGER_STORE_SHARDS).
package pkgconfig
