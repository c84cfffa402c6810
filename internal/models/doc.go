// Package models defines the core domain models for Dashboardly.
//
// # Models
//
// The application revolves around three kinds of accounts (see Role):
//   - Landlords own properties, invite tenants, issue invoices and track utilities
//   - Tenants occupy properties through a Tenancy and raise maintenance requests
//   - Service providers are assigned maintenance work
//
// Chat is strictly one-to-one between a landlord and a tenant (Conversation).
//
// # Design Principles
//
//  1. Use ID strings instead of pointers for relationships
//  2. Timestamps are Unix milliseconds so that rows created in the same second still order
//  3. Money is float64 with an explicit ISO 4217 currency code next to it
//  4. Enumerations are typed strings that match the values stored in the database
package models
