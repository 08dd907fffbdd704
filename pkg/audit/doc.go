// Package audit emits security audit events in RFC5424 syslog format.
//
// Every security-relevant operation produces an Event: admin sign-in,
// password re-confirmation, certificate issue and revoke, backup export
// and import, and public verification lookups. Events carry structured
// data (who, what, from where, outcome) alongside a human-readable
// message.
//
// Audit logging is enabled by default and can be turned off with
// CERTIFY_AUDIT_ENABLED=false.
package audit
