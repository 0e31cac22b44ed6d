// Package main provides the entry point for the lead management application.
// It initializes and runs a web server using the Fiber framework that collects
// public investor-interest submissions and exposes a role-scoped REST API for
// staff to triage them into leads. The application uses gorm for data
// persistence and records every mutating request in an append-only audit log.
package main
