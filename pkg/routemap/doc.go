// Package routemap maps inbound HTTP requests to required permission keys.
//
// The table is static deploy-time configuration. Matching is exact first,
// then against patterns where "*" stands for exactly one path segment;
// overlapping patterns are ordered by explicit Priority, never by
// declaration order. A request matching nothing is simply ungated.
package routemap
