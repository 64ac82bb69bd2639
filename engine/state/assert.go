//go:build !noassert

package state

const checks = true
