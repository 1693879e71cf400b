package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type ItemType string

const (
	TypeBook     ItemType = "book"
	TypeMagazine ItemType = "magazine"
	TypeJournal  ItemType = "journal"
	TypeDVD      ItemType = "dvd"
	TypeOther    ItemType = "other"
)

// ValidItemType reports whether t is one of the known item types.
func ValidItemType(t ItemType) bool {
	switch t {
	case TypeBook, TypeMagazine, TypeJournal, TypeDVD, TypeOther:
		return true
	}
	return false
}

type Item struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Type         ItemType  `json:"type" db:"type"`
	Availability bool      `json:"availability" db:"availability"`
	Owner        string    `json:"owner" db:"owner"`
	Author       string    `json:"author,omitempty" db:"author"`
	ISBN         string    `json:"isbn,omitempty" db:"isbn"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// StringSlice stores a []string as jsonb.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = StringSlice{}
		return nil
	}
	return errors.Errorf("unsupported scan type %T", src)
}

type Member struct {
	ID            string      `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	StudentID     string      `json:"studentId" db:"student_id"`
	BorrowedItems StringSlice `json:"borrowedItems" db:"borrowed_items"`
	Email         string      `json:"email,omitempty" db:"email"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

type CreateItemRequest struct {
	Title        string   `json:"title" validate:"required"`
	Type         ItemType `json:"type"`
	Availability *bool    `json:"availability"`
	Owner        string   `json:"owner" validate:"required"`
	Author       string   `json:"author"`
	ISBN         string   `json:"isbn"`
}

// UpdateItemRequest carries partial updates: nil means untouched. The
// circulation service PUTs bodies as small as {"availability": bool}.
type UpdateItemRequest struct {
	Title        *string   `json:"title"`
	Type         *ItemType `json:"type"`
	Availability *bool     `json:"availability"`
	Owner        *string   `json:"owner"`
	Author       *string   `json:"author"`
	ISBN         *string   `json:"isbn"`
}

func (r UpdateItemRequest) Empty() bool {
	return r.Title == nil && r.Type == nil && r.Availability == nil &&
		r.Owner == nil && r.Author == nil && r.ISBN == nil
}

type CreateMemberRequest struct {
	Name          string   `json:"name" validate:"required"`
	StudentID     string   `json:"studentId" validate:"required"`
	BorrowedItems []string `json:"borrowedItems"`
	Email         string   `json:"email"`
}

type UpdateMemberRequest struct {
	Name          *string   `json:"name"`
	StudentID     *string   `json:"studentId"`
	BorrowedItems *[]string `json:"borrowedItems"`
	Email         *string   `json:"email"`
}

func (r UpdateMemberRequest) Empty() bool {
	return r.Name == nil && r.StudentID == nil && r.BorrowedItems == nil && r.Email == nil
}
