// internal/domain/models/roster.go
package models

import "time"

// Standard represents a grade/class level (e.g., "Grade 5") as reported by
// the school platform. Standards and their sections are read-only to this
// dashboard; they are fetched from the platform and never written back.
type Standard struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	InstitutionID string    `json:"institutionId"`
	Sections      []Section `json:"sections"`
}

// Section is a subdivision of a Standard (e.g., "Section A").
type Section struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Student is a member of a Standard/Section and the target of exam and quiz
// assignments. Only the ID is ever sent back to the platform; the rest is
// display data.
type Student struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       string `json:"dob,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Phone     string `json:"phone,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	IsActive  bool   `json:"isActive"`
}

// FullName returns the student's display name.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
