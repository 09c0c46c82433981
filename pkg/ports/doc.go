/*
Package ports defines the driven ports (interfaces) for the hpos-config service.

These interfaces decouple validation from external implementations, so the same
Service can run with an in-memory store in tests and Redis in production.

# Key Interfaces

  - ReportStore: persists validation reports by document digest.

RunReportStoreContract is the shared test suite every ReportStore adapter runs.
*/
package ports
