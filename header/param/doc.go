// Package param provides an immutable view of parameterized headers, such as
// Content-Type and Content-Disposition, built on top of the lossless parser.
// In addition, it provides some helper methods for breaking down the MIME
// types that get set in the Content-Type header.
package param
