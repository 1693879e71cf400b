package model

import (
	"time"
)

// DashboardStats is the live aggregate over both upstream services.
type DashboardStats struct {
	TotalItems     int       `json:"totalItems" db:"total_items"`
	TotalMembers   int       `json:"totalMembers" db:"total_members"`
	ActiveLoans    int       `json:"activeLoans" db:"active_loans"`
	OverdueLoans   int       `json:"overdueLoans" db:"overdue_loans"`
	AvailableItems int       `json:"availableItems" db:"available_items"`
	LastUpdated    time.Time `json:"lastUpdated" db:"last_updated"`
}

// Loan mirrors the circulation service wire shape.
type Loan struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"itemId"`
	MemberID   string     `json:"memberId"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	IsOverdue  bool       `json:"isOverdue"`
	Status     string     `json:"status"`
}

// Item and Member are the slices of the catalog entities reporting
// joins into its views.
type Item struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Availability bool   `json:"availability"`
}

type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
}

type ItemBorrowingStats struct {
	ItemID      string `json:"itemId"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	BorrowCount int    `json:"borrowCount"`
}

type MemberBorrowingStats struct {
	MemberID    string `json:"memberId"`
	Name        string `json:"name"`
	StudentID   string `json:"studentId"`
	BorrowCount int    `json:"borrowCount"`
}

// BorrowingHistory is a loan joined with display names; lookups that
// fail leave the Unknown placeholder, history is still served.
type BorrowingHistory struct {
	Loan       Loan   `json:"loan"`
	ItemTitle  string `json:"itemTitle"`
	MemberName string `json:"memberName"`
}

const Unknown = "Unknown"

// LoanEventRecord is a consumed loan event persisted for operational
// visibility.
type LoanEventRecord struct {
	ID           int64     `json:"id" db:"id"`
	EventType    string    `json:"eventType" db:"event_type"`
	LoanID       string    `json:"loanId" db:"loan_id"`
	ItemID       string    `json:"itemId" db:"item_id"`
	MemberID     string    `json:"memberId" db:"member_id"`
	OverdueCount int       `json:"overdueCount" db:"overdue_count"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// DependencyStatus reports one upstream's health probe result.
type DependencyStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}
