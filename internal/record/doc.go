// Package record implements the record ingestion pipeline: decoding the
// host's schema-less XML export into a normalized Record, classifying
// fields by key and value shape, partitioning fields into custom and
// standard subsets, and encoding filtered records as JSON or CSV.
//
// Decoding is total over arbitrary element shapes: every node produces
// some FieldValue, so unknown host schemas degrade to generic objects or
// strings instead of errors. The only decode failures are an empty
// payload and a document without a record root.
package record
