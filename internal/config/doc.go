// Package config loads, normalizes, and validates btlinkd's static settings.
//
// Settings cover everything that is fixed for the lifetime of the process: the
// policy file location, log and journal paths, the IPC socket, log level and
// format, and the monitor's tick/backoff tuning. The hot-reloadable operating
// policy itself lives in the policy package; this package only says where to
// find it.
//
// Always obtain settings through this package so downstream code receives
// expanded paths and validated values.
package config
