/*
Package domain contains the records produced by validating configuration documents.

It is kept free of I/O and persistence so that stores and transports can share
the same types.

# Key Entities

  - Report: the outcome of one validation, addressed by the digest of the document.
*/
package domain
