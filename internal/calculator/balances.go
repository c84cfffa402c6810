package calculator

import "sort"

// InvoiceForBalance is the minimal invoice information needed for balances.
type InvoiceForBalance struct {
	TenantID string
	Currency string
	Amount   float64
	Status   string // pending, paid, overdue, cancelled
}

// TenantBalance sums one tenant's invoices in one currency.
type TenantBalance struct {
	TenantID    string
	Currency    string
	Invoiced    float64 // everything not cancelled
	Paid        float64
	Outstanding float64 // pending + overdue
	Overdue     float64
}

type balanceKey struct {
	tenant   string
	currency string
}

// CalculateTenantBalances aggregates invoices per tenant and currency.
// Amounts are summed in cents. Cancelled invoices are ignored. The result is
// ordered by tenant, then currency.
func CalculateTenantBalances(invoices []InvoiceForBalance) []TenantBalance {
	type cents struct{ invoiced, paid, outstanding, overdue int64 }
	sums := make(map[balanceKey]*cents)

	for _, inv := range invoices {
		if inv.Status == "cancelled" {
			continue
		}
		k := balanceKey{tenant: inv.TenantID, currency: inv.Currency}
		c, ok := sums[k]
		if !ok {
			c = &cents{}
			sums[k] = c
		}
		amount := toCents(inv.Amount)
		c.invoiced += amount
		switch inv.Status {
		case "paid":
			c.paid += amount
		case "overdue":
			c.overdue += amount
			c.outstanding += amount
		default:
			c.outstanding += amount
		}
	}

	out := make([]TenantBalance, 0, len(sums))
	for k, c := range sums {
		out = append(out, TenantBalance{
			TenantID:    k.tenant,
			Currency:    k.currency,
			Invoiced:    fromCents(c.invoiced),
			Paid:        fromCents(c.paid),
			Outstanding: fromCents(c.outstanding),
			Overdue:     fromCents(c.overdue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TenantID != out[j].TenantID {
			return out[i].TenantID < out[j].TenantID
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
