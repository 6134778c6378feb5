// Package config loads runtime configuration for the fitroom binaries.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and the process environment.
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "kling_base_url": "https://api.klingai.com",
//	  "poll_interval": "5s",
//	  "poll_max_attempts": 120
//	}
package config
