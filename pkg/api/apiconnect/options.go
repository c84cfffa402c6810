// Package apiconnect wires the messages of package api to Connect: procedure
// names, HTTP handlers and typed clients for every service.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

func handlerOptions(opts []connect.HandlerOption, readOnly bool) []connect.HandlerOption {
	out := make([]connect.HandlerOption, 0, len(opts)+2)
	out = append(out, connect.WithCodec(api.Codec{}))
	if readOnly {
		out = append(out, connect.WithIdempotency(connect.IdempotencyNoSideEffects))
	}
	return append(out, opts...)
}

func clientOptions(opts []connect.ClientOption, readOnly bool) []connect.ClientOption {
	out := make([]connect.ClientOption, 0, len(opts)+2)
	out = append(out, connect.WithCodec(api.Codec{}))
	if readOnly {
		out = append(out, connect.WithIdempotency(connect.IdempotencyNoSideEffects))
	}
	return append(out, opts...)
}

// ReadOnly reports whether procedure has no side effects and may be retried.
func ReadOnly(procedure string) bool {
	return readOnly[procedure]
}

var readOnly = map[string]bool{
	AuthServiceGetCurrentUserProcedure:      true,
	BillingServiceListInvoicesProcedure:     true,
	BillingServiceListPaymentsProcedure:     true,
	BillingServiceTenantBalancesProcedure:   true,
	ChatServiceListConversationsProcedure:   true,
	ChatServiceListMessagesProcedure:        true,
	ChatServiceGetMessageProcedure:          true,
	ChatServiceUnreadCountProcedure:         true,
	CurrencyServiceGetRatesProcedure:        true,
	CurrencyServiceConvertProcedure:         true,
	CurrencyServiceFormatProcedure:          true,
	DocumentServiceListDocumentsProcedure:   true,
	DocumentServiceGetDocumentProcedure:     true,
	MaintenanceServiceGetRequestProcedure:   true,
	MaintenanceServiceListRequestsProcedure: true,
	PropertyServiceGetPropertyProcedure:     true,
	PropertyServiceListPropertiesProcedure:  true,
	PropertyServiceListTenanciesProcedure:   true,
	UtilityServiceListBillsProcedure:        true,
	UtilityServiceStatsProcedure:            true,
	UtilityServiceSplitBillProcedure:        true,
	UtilityServiceListProvidersProcedure:    true,
	UtilityServiceListScrapingJobsProcedure: true,
}
