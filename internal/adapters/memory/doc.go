// Package memory holds in-process implementations of every store port.
// They back RECORD_STORE=memory / ACCOUNT_STORE=memory local runs and the
// service and API tests. All types are safe for concurrent use.
package memory
