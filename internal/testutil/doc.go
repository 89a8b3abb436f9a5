// Package testutil provides test doubles shared by package tests: an
// in-process fake of the remote simulator service, a sleeper that records
// instead of sleeping, and zap log observers.
package testutil
