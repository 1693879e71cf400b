package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mac0206/library-system/circulation/internal/model"
)

func TestCalculateDueDate(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name   string
		borrow time.Time
		days   int
		want   time.Time
	}{
		{
			name:   "default period",
			borrow: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			days:   0,
			want:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "explicit period",
			borrow: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			days:   7,
			want:   time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "month rollover",
			borrow: time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC),
			days:   14,
			want:   time.Date(2024, 2, 8, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "year rollover",
			borrow: time.Date(2023, 12, 28, 10, 0, 0, 0, time.UTC),
			days:   14,
			want:   time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "leap february",
			borrow: time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC),
			days:   14,
			want:   time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "negative days falls back to default",
			borrow: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			days:   -5,
			want:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, model.CalculateDueDate(tt.borrow, tt.days))
		})
	}
}

func TestIsOverdue(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	before := due.AddDate(0, 0, -1)
	after := due.AddDate(0, 0, 1)

	require.False(t, model.IsOverdue(before, due, nil))
	require.False(t, model.IsOverdue(due, due, nil), "due date itself is not overdue")
	require.True(t, model.IsOverdue(after, due, nil))

	// a returned loan is judged as of its return date, not now
	require.False(t, model.IsOverdue(after, due, &before))
	require.True(t, model.IsOverdue(before, due, &after))
}

func TestBorrowRequest_CanonicalFields(t *testing.T) {
	t.Parallel()

	req := model.BorrowRequest{LegacyBookID: "book-1", MemberID: "member-1"}
	require.Equal(t, "book-1", req.CanonicalItemID())
	require.Equal(t, "member-1", req.CanonicalMemberID())

	// modern aliases win when both forms are present
	req = model.BorrowRequest{
		ItemID: "item-1", LegacyBookID: "book-1",
		MemberID: "member-1", BorrowerMemberID: "borrower-1",
	}
	require.Equal(t, "item-1", req.CanonicalItemID())
	require.Equal(t, "borrower-1", req.CanonicalMemberID())
}
