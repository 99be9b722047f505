// Package runner fires every selected connectivity check concurrently,
// collects the outcomes in registry order and reports them once all checks
// have finished.
package runner
