// Package dispatch provides the apply thread: a single goroutine, locked to
// its OS thread, that runs posted callbacks one at a time in the order they
// were posted.
package dispatch
