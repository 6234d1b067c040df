// Package repository implements data access over MySQL for the enrolment
// domain. This file collects the sentinel errors shared across the
// repositories so that handlers can translate failure modes into domain
// result codes with errors.Is instead of string matching.
package repository

import "errors"

// ErrHouseNotFound is returned when a house lookup matches no row.
var ErrHouseNotFound = errors.New("house not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrRoleNotFound is returned when no role satisfies a name lookup. Callers
// must surface this as a client error; retrying cannot succeed.
var ErrRoleNotFound = errors.New("role not found")

// ErrCodeNotFound is returned when no mastercode row carries the supplied
// code string. Exhausted codes have their code column NULLed, so a
// previously valid but used-up code also lands here, never on
// ErrCodeExhausted.
var ErrCodeNotFound = errors.New("mastercode not found")

// ErrCodeExhausted is returned when a mastercode row still matches the
// supplied string but has no places left. With invalidation-on-exhaustion
// in place this only occurs for rows predating that rule.
var ErrCodeExhausted = errors.New("mastercode has no places left")

// ErrNotEnrolled is returned when a detach matched no enrolment rows.
// Reported rather than swallowed: a caller un-enrolling a user who was
// never enrolled is almost always a caller bug.
var ErrNotEnrolled = errors.New("not enrolled")
