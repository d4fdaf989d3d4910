// Package types holds the data structures shared by handlers, services and
// storage. Keeping them in one place prevents import cycles.
package types

// Student is one entry of the students collection.
//
// validate:"..." rules are checked by internal/validation; loose_email and
// kr_mobile are custom tags registered there.
type Student struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,loose_email"`
	Phone      string `json:"phone"      validate:"required,kr_mobile"`
	Program    string `json:"program"    validate:"required"`
	Team       string `json:"team,omitempty"`
	Coach      string `json:"coach,omitempty"`
	EnrollDate string `json:"enrollDate" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt  string `json:"createdAt,omitempty"`
}
