// Package mock provides test doubles for the ai interfaces.
//
// The mocks produce deterministic output without network access, and allow
// behavior injection via function fields for failure-path testing.
package mock
