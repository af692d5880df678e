// Package config loads and watches the vitalscan configuration file.
//
// Top-level types:
//   - Config{API, Fetch, Submit, Watch, MetricsFile, LogLevel}
//   - APIConfig: base_url, timeout, auth, rate_limit, rate_burst
//   - AuthConfig: header, key_env; Key() resolves the credential from the
//     environment so the secret never lives in the file
//   - FetchConfig: page_size, max_pages, max_attempts, backoff_factor,
//     max_backoff, validation_attempts
//   - WatchConfig: interval, webhooks (type + url_env, resolved like the key)
//
// Load(path) applies defaults, parses the YAML file when path is non-empty,
// then validates. An empty path yields the defaults, which talk to the
// assessment API with the key from $API_KEY.
//
// LoadDotenv(path) fills the process environment from a .env file; a missing
// file is not an error.
//
// Watch(ctx, path, onChange) uses fsnotify on the file's directory, waits for
// a burst of events to settle, and calls onChange only with a valid Config
// that differs from the previous one.
package config
