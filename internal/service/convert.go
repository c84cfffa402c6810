package service

import (
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/auth"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:                 u.ID,
		Email:              u.Email,
		DisplayName:        u.DisplayName,
		Role:               string(u.Role),
		Currency:           u.Currency,
		Language:           u.Language,
		SubscriptionPlan:   u.SubscriptionPlan,
		SubscriptionStatus: u.SubscriptionStatus,
		PayoutsEnabled:     u.StripeAccountID != "",
		CreatedAt:          u.CreatedAt,
	}
}

func toAPISession(p *auth.TokenPair) *api.Session {
	return &api.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    p.ExpiresAt.UnixMilli(),
	}
}

func toAPIMessage(m *models.Message) *api.Message {
	return &api.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderName:     m.SenderName,
		Content:        m.Content,
		Status:         string(m.Status),
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toAPIConversation(c *models.ConversationSummary) *api.Conversation {
	return &api.Conversation{
		ID:              c.ID,
		LandlordID:      c.LandlordID,
		TenantID:        c.TenantID,
		CounterpartID:   c.CounterpartID,
		CounterpartName: c.CounterpartName,
		LastMessage:     c.LastMessage,
		LastMessageAt:   c.LastMessageAt,
		UnreadCount:     c.UnreadCount,
		CreatedAt:       c.CreatedAt,
	}
}

func toAPIRates(r currency.Rates) *api.Rates {
	values := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	out := &api.Rates{Base: currency.Base, Rates: values, Fallback: r.Fallback}
	if !r.FetchedAt.IsZero() {
		out.FetchedAt = r.FetchedAt.UnixMilli()
	}
	return out
}

func toAPIProperty(p *models.Property) *api.Property {
	return &api.Property{
		ID:            p.ID,
		LandlordID:    p.LandlordID,
		Name:          p.Name,
		Address:       p.Address,
		Type:          p.Type,
		MonthlyRent:   p.MonthlyRent,
		Currency:      p.Currency,
		Description:   p.Description,
		AvailableFrom: p.AvailableFrom,
		CreatedAt:     p.CreatedAt,
	}
}

func toAPITenancy(t *models.Tenancy) *api.Tenancy {
	return &api.Tenancy{
		ID:              t.ID,
		PropertyID:      t.PropertyID,
		PropertyName:    t.PropertyName,
		TenantID:        t.TenantID,
		TenantName:      t.TenantName,
		InvitationEmail: t.InvitationEmail,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		Status:          string(t.Status),
		CreatedAt:       t.CreatedAt,
	}
}

func toAPIMaintenance(r *models.MaintenanceRequest, images []*api.Attachment) *api.Maintenance {
	return &api.Maintenance{
		ID:          r.ID,
		PropertyID:  r.PropertyID,
		TenantID:    r.TenantID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		AssignedTo:  r.AssignedTo,
		Images:      images,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toAPIDocument(d *models.Document, url string) *api.Document {
	return &api.Document{
		ID:           d.ID,
		PropertyID:   d.PropertyID,
		TenantID:     d.TenantID,
		UploadedBy:   d.UploadedBy,
		Name:         d.Name,
		DocumentType: d.DocumentType,
		URL:          url,
		CreatedAt:    d.CreatedAt,
	}
}

func toAPIInvoice(i *models.Invoice) *api.Invoice {
	return &api.Invoice{
		ID:         i.ID,
		PropertyID: i.PropertyID,
		LandlordID: i.LandlordID,
		TenantID:   i.TenantID,
		Amount:     i.Amount,
		Currency:   i.Currency,
		DueDate:    i.DueDate,
		Status:     i.Status,
		PaidAt:     i.PaidAt,
		CreatedAt:  i.CreatedAt,
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		TenantID:  p.TenantID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status,
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}

func toAPIUtilityBill(b *models.UtilityBill) *api.UtilityBill {
	return &api.UtilityBill{
		ID:            b.ID,
		PropertyID:    b.PropertyID,
		Type:          b.Type,
		Amount:        b.Amount,
		Currency:      b.Currency,
		DueDate:       b.DueDate,
		Status:        b.Status,
		InvoiceNumber: b.InvoiceNumber,
		IssuedDate:    b.IssuedDate,
		CreatedAt:     b.CreatedAt,
	}
}

func toAPIProvider(p *models.UtilityProvider) *api.UtilityProvider {
	return &api.UtilityProvider{
		ID:           p.ID,
		PropertyID:   p.PropertyID,
		ProviderName: p.ProviderName,
		UtilityType:  p.UtilityType,
		Username:     p.Username,
		LocationName: p.LocationName,
		CreatedAt:    p.CreatedAt,
	}
}

func toAPIJob(j *models.ScrapingJob) *api.ScrapingJob {
	return &api.ScrapingJob{
		ID:           j.ID,
		ProviderID:   j.ProviderID,
		Status:       j.Status,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		CompletedAt:  j.CompletedAt,
	}
}
