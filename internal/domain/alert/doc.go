// Package alert contains the core domain types of the alert lifecycle.
//
// It defines Alert with its acknowledgement and resolution records, the
// Severity and Status enumerations, the transition table and the identity
// checks used to authorize resolution.
package alert
