// Package wardlib implements the core cookie privacy engine shared by the
// cookieward daemon and CLI: data-type classification, multi-factor risk
// scoring, the durable permission and history stores, reconciliation of
// live browser state against recorded state, and permission enforcement.
package wardlib
