// Package engine drives generation work for one active session: the bounded
// worker pool that processes the initial batch, and the guarded single-item
// operations (regenerate, edit, animate, narrate) that run outside it.
package engine
