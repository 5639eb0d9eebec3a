package directory

import "time"

// Employee is a shadow identity record kept eventually consistent with the
// identity system of record, extended with the HR reporting structure.
type Employee struct {
	AuthUserID      string    `bson:"_id" json:"authUserId"`
	Username        string    `bson:"username" json:"username"`
	Email           string    `bson:"email" json:"email"`
	FullName        string    `bson:"fullName" json:"fullName"`
	DirectManagerID string    `bson:"directManagerId,omitempty" json:"directManagerId,omitempty"`
	DepartmentID    string    `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Department groups employees under zero or one position-based head.
type Department struct {
	ID         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	HeadUserID string `bson:"headUserId,omitempty" json:"headUserId,omitempty"`
}
