// Package config defines the configuration structure for the asynchttp CLI.
//
// Values are resolved in this order, later sources winning:
//
//  1. `default` struct tags, applied with creasty/defaults
//  2. a config file (--config, YAML/JSON/TOML)
//  3. ASYNCHTTP_* environment variables (ASYNCHTTP_LOAD_REQUESTS, ...)
//  4. command line flags bound through viper
//
// # Configuration Structure
//
//	┌────────────────┬───────────────────────────┬──────────────────────────────────────┐
//	│ Field          │ Default                   │ Description                          │
//	├────────────────┼───────────────────────────┼──────────────────────────────────────┤
//	│ Workers        │ 0                         │ Pool workers, 0 = available CPUs     │
//	│ RateLimit      │ 0                         │ Task starts per second, 0 = no limit │
//	│ Burst          │ 1                         │ Rate limiter burst                   │
//	│ CPUAffinity    │ false                     │ Pin workers to cores                 │
//	│ LogLevel       │ "info"                    │ debug, info, warn, error             │
//	│ LogFormat      │ "console"                 │ console or json                      │
//	│ Metrics        │ false                     │ Print Prometheus metrics on exit     │
//	│ ProcessingTime │ 100ms                     │ Fixture processing time              │
//	│ Load.Requests  │ 100                       │ Requests fired by the load command   │
//	│ Load.Target    │ "http://example.com/ok"   │ URL used by the load command         │
//	└────────────────┴───────────────────────────┴──────────────────────────────────────┘
package config
