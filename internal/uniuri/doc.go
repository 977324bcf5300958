// Package uniuri generates random alphanumeric identifiers, used as request
// ids by the web service.
package uniuri
