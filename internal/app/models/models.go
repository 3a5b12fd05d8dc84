package models

import (
	"errors"
	"strings"
)

// RoleType defines the role a caller acts under
type RoleType string

const (
	RoleAnonymous RoleType = "ANONYMOUS"
	RoleStudent   RoleType = "STUDENT"
	RoleAdmin     RoleType = "ADMIN"
)

// Identifier errors
var (
	ErrEmptyRollno   = errors.New("roll number cannot be empty")
	ErrEmptyCourseID = errors.New("course ID cannot be empty")
)

// Rollno is the unique identifier of a student.
type Rollno string

// ParseRollno trims s and rejects an empty roll number.
func ParseRollno(s string) (Rollno, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyRollno
	}
	return Rollno(s), nil
}

func (r Rollno) String() string { return string(r) }

// CourseID is the unique identifier of a course.
type CourseID string

// ParseCourseID trims s and rejects an empty course ID.
func ParseCourseID(s string) (CourseID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyCourseID
	}
	return CourseID(s), nil
}

func (c CourseID) String() string { return string(c) }

// ParseCourseIDs parses every entry of ids, stopping at the first invalid one.
func ParseCourseIDs(ids []string) ([]CourseID, error) {
	parsed := make([]CourseID, 0, len(ids))
	for _, raw := range ids {
		id, err := ParseCourseID(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, id)
	}
	return parsed, nil
}
