package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		participants []string
		want         []float64
		wantErr      error
	}{
		{
			name:         "divides evenly",
			total:        90,
			participants: []string{"t1", "t2", "t3"},
			want:         []float64{30, 30, 30},
		},
		{
			name:         "remainder cents go to the first participants",
			total:        100,
			participants: []string{"t1", "t2", "t3"},
			want:         []float64{33.34, 33.33, 33.33},
		},
		{
			name:         "two cents left over",
			total:        0.05,
			participants: []string{"t1", "t2", "t3"},
			want:         []float64{0.02, 0.02, 0.01},
		},
		{
			name:         "single participant pays everything",
			total:        123.456,
			participants: []string{"t1"},
			want:         []float64{123.46},
		},
		{
			name:         "zero total",
			total:        0,
			participants: []string{"t1", "t2"},
			want:         []float64{0, 0},
		},
		{
			name:         "no participants should error",
			total:        10,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "negative total should error",
			total:        -1,
			participants: []string{"t1"},
			wantErr:      ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitEvenly(tt.total, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitEvenly() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitEvenly() unexpected error: %v", err)
			}
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}

			var sum float64
			for i, s := range shares {
				if s.ParticipantID != tt.participants[i] {
					t.Errorf("share %d participant = %s, want %s", i, s.ParticipantID, tt.participants[i])
				}
				if math.Abs(s.Amount-tt.want[i]) > 0.001 {
					t.Errorf("share %d amount = %v, want %v", i, s.Amount, tt.want[i])
				}
				sum += s.Amount
			}
			if math.Abs(sum-math.Round(tt.total*100)/100) > 0.001 {
				t.Errorf("shares add up to %v, want %v", sum, tt.total)
			}
		})
	}
}

func TestCalculateTenantBalances(t *testing.T) {
	invoices := []InvoiceForBalance{
		{TenantID: "bob", Currency: "RON", Amount: 1500, Status: "paid"},
		{TenantID: "bob", Currency: "RON", Amount: 1500, Status: "pending"},
		{TenantID: "bob", Currency: "RON", Amount: 200.10, Status: "overdue"},
		{TenantID: "bob", Currency: "RON", Amount: 999, Status: "cancelled"},
		{TenantID: "bob", Currency: "EUR", Amount: 50, Status: "paid"},
		{TenantID: "alice", Currency: "RON", Amount: 0.1, Status: "pending"},
		{TenantID: "alice", Currency: "RON", Amount: 0.2, Status: "pending"},
	}

	got := CalculateTenantBalances(invoices)
	if len(got) != 3 {
		t.Fatalf("got %d balances, want 3: %+v", len(got), got)
	}

	want := []TenantBalance{
		{TenantID: "alice", Currency: "RON", Invoiced: 0.3, Outstanding: 0.3},
		{TenantID: "bob", Currency: "EUR", Invoiced: 50, Paid: 50},
		{TenantID: "bob", Currency: "RON", Invoiced: 3200.10, Paid: 1500, Outstanding: 1700.10, Overdue: 200.10},
	}
	for i, w := range want {
		g := got[i]
		if g.TenantID != w.TenantID || g.Currency != w.Currency {
			t.Fatalf("balance %d = %s/%s, want %s/%s", i, g.TenantID, g.Currency, w.TenantID, w.Currency)
		}
		// Summed in cents, so the results are exact to two decimals.
		if g.Invoiced != w.Invoiced || g.Paid != w.Paid || g.Outstanding != w.Outstanding || g.Overdue != w.Overdue {
			t.Errorf("balance %d = %+v, want %+v", i, g, w)
		}
	}

	if out := CalculateTenantBalances(nil); len(out) != 0 {
		t.Errorf("expected no balances for no invoices, got %+v", out)
	}
}
