package model

import "strings"

// Role represents a row in the `roles` table. Roles form a total order:
// a smaller ID is a more privileged role. The seed data ranks them
// 1 Principal, 2 Department Head, 3 Teacher, 4 Tutor, 5 Parent, 6 Student.
//
// Fields:
//  ID   – numeric rank of the role (1 = most privileged).
//  Name – unique role name.
type Role struct {
	ID   uint64 // roles.id
	Name string // roles.role
}

// SelfEnrolRoleID is the role assigned when a user enrols themselves with a
// mastercode. Mastercode purchases only ever grant student places, so this is
// fixed rather than configurable. It matches the Student row in the seed data.
const SelfEnrolRoleID uint64 = 6

// RoleNameMatches reports whether a stored role name satisfies a requested
// one. The rule is: case-insensitive exact match, or the stored name ends
// with the requested name (so "student" matches "Junior Student"). Suffix
// matching lets callers address role families without knowing the full
// seeded name; anything looser than a suffix is rejected on purpose.
func RoleNameMatches(stored, requested string) bool {
	s := strings.ToLower(strings.TrimSpace(stored))
	q := strings.ToLower(strings.TrimSpace(requested))
	if q == "" {
		return false
	}
	return s == q || strings.HasSuffix(s, q)
}
