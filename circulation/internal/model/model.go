package model

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

const DefaultLoanDays = 14

// Loan binds one item to one member for a bounded period. The item and
// member live in the catalog service; only their ids are stored here.
type Loan struct {
	ID         string     `json:"id" db:"id"`
	ItemID     string     `json:"itemId" db:"item_id"`
	MemberID   string     `json:"memberId" db:"member_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	IsOverdue  bool       `json:"isOverdue" db:"is_overdue"`
	Status     Status     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// BorrowRequest accepts both the modern and the legacy field names.
type BorrowRequest struct {
	ItemID           string `json:"itemId"`
	LegacyBookID     string `json:"bookId"`
	MemberID         string `json:"memberId"`
	BorrowerMemberID string `json:"borrowerMemberId"`
	Days             int    `json:"days"`
}

// CanonicalItemID prefers the modern alias.
func (r BorrowRequest) CanonicalItemID() string {
	if r.ItemID != "" {
		return r.ItemID
	}
	return r.LegacyBookID
}

func (r BorrowRequest) CanonicalMemberID() string {
	if r.BorrowerMemberID != "" {
		return r.BorrowerMemberID
	}
	return r.MemberID
}

type ReturnRequest struct {
	ItemID       string `json:"itemId"`
	LegacyBookID string `json:"bookId"`
}

func (r ReturnRequest) CanonicalItemID() string {
	if r.ItemID != "" {
		return r.ItemID
	}
	return r.LegacyBookID
}

// Item is the slice of the catalog item the circulation core cares
// about.
type Item struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Availability bool   `json:"availability"`
}

// Member is the slice of the catalog member the circulation core cares
// about.
type Member struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	BorrowedItems []string `json:"borrowedItems"`
}

// CalculateDueDate adds days to the day-of-month of borrowDate,
// letting month and year roll over naturally.
func CalculateDueDate(borrowDate time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultLoanDays
	}
	return borrowDate.AddDate(0, 0, days)
}

// IsOverdue reports whether a loan with the given dueDate is past due
// as of now, or as of returnDate if the loan was returned.
func IsOverdue(now, dueDate time.Time, returnDate *time.Time) bool {
	ref := now
	if returnDate != nil {
		ref = *returnDate
	}
	return ref.After(dueDate)
}
