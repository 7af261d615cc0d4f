// Package api defines the request and response messages of the wanderplan
// RPC services.
//
// Messages travel as JSON (see apiconnect). Money fields are decimal.Decimal,
// which encode as quoted decimal strings ("12.50") so no precision is lost
// in transit. Dates are "YYYY-MM-DD" strings.
package api
