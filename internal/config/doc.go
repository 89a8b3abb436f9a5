// Package config loads synqs.cue configuration files.
//
// A file sets the journal location and per-device options:
//
//	store: "synqs.db"
//	devices: "synqs.fs": {
//		shots:         50
//		username:      "alice"
//		blocking:      false
//		poll_interval: "2s"
//	}
//
// Files are validated against an embedded CUE schema. Credentials, the
// journal path and the poll interval fall back to SYNQS_USERNAME,
// SYNQS_PASSWORD, SYNQS_DB and SYNQS_POLL_INTERVAL.
package config
