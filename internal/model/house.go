package model

import "time"

// House represents a class grouping that users enrol into. A house belongs
// to a course; course content itself is managed elsewhere and only the
// foreign key is carried here. This struct corresponds to a row in the
// `houses` table.
//
// Fields:
//  ID        – primary key identifier.
//  CourseID  – course this house belongs to.
//  Name      – human-readable house name.
//  CreatedAt – timestamp when the house was created.
//  UpdatedAt – timestamp of last update.
type House struct {
	ID        uint64    // houses.id
	CourseID  uint64    // houses.course_id
	Name      string    // houses.name
	CreatedAt time.Time // houses.created_at
	UpdatedAt time.Time // houses.updated_at
}
