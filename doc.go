// Package main provides the entry point of the clinic CRM backend.
// It serves a JSON REST API over a relational store for medical certificates
// and branding settings, a health check for the hosting platform and, in
// production, the frontend single page application, all with the Fiber
// framework and gorm for persistence.
package main
