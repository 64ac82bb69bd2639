//go:build noassert

package state

const checks = false
