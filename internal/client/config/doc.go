// Package config loads runtime configuration for the staffdesk console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables with the STAFFDESK_ prefix (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the admin API
//	-t int      request timeout (seconds)
//	-d string   path of the local session database
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/v3",
//	  "request_timeout": "10s",
//	  "session_db_path": "session.db",
//	  "login_redirect_delay": "2s",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	STAFFDESK_API_BASE_URL, STAFFDESK_REQUEST_TIMEOUT, STAFFDESK_SESSION_DB_PATH,
//	STAFFDESK_LOGIN_REDIRECT_DELAY, STAFFDESK_LOG_LEVEL
package config
