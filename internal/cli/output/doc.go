// Package output renders avtoken-cli results as tables, JSON or YAML.
//
// Results that implement Tabular choose their own table layout; other
// structs and maps fall back to a FIELD/VALUE table.
package output
