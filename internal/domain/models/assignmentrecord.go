// internal/domain/models/assignmentrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentRecord is the audit document written after a wizard run completes
// both phases (create + assign) successfully. It is best-effort history for
// the dashboard only; the platform remains the source of truth for what is
// actually assigned.
type AssignmentRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Flow       string `bson:"flow" json:"flow"` // "customExam" or "customQuiz"
	ResourceID string `bson:"resource_id" json:"resource_id"`
	Title      string `bson:"title" json:"title"`
	Subject    string `bson:"subject,omitempty" json:"subject,omitempty"`

	StandardName string `bson:"standard_name,omitempty" json:"standard_name,omitempty"`
	SectionName  string `bson:"section_name,omitempty" json:"section_name,omitempty"`

	// SelectedCount is how many students the staff member picked;
	// AssignedCount is how many the platform reported as assigned.
	// The two can legitimately differ.
	SelectedCount int `bson:"selected_count" json:"selected_count"`
	AssignedCount int `bson:"assigned_count" json:"assigned_count"`

	AssignedByID   string `bson:"assigned_by_id,omitempty" json:"assigned_by_id,omitempty"`
	AssignedByName string `bson:"assigned_by_name,omitempty" json:"assigned_by_name,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
