// Package headervalue parses and generates the bodies of email header
// fields. The parser is lossless: every field body becomes a tree of tokens
// that reproduces the source text exactly, while also exposing the decoded
// value and any problems found along the way as defects. The folder does
// the reverse, laying a tree out on lines of bounded length and encoding
// words and parameters as RFC 2047 and RFC 2231 require.
//
// The work is split up by layer:
//
//   - header/token is the tree itself.
//   - header/parser turns text into trees: addresses, message-ids, MIME
//     headers, dates and unstructured text.
//   - header/fold turns trees back into folded lines under a Policy.
//   - header/encword and header/charset handle encoded words and the
//     charsets they name. Import header/charset/all for every charset
//     known to golang.org/x/text.
//   - header/field, header/param and header/address build friendlier
//     values on top of the trees, and header ties the fields of a complete
//     header together.
//
// Parsing is liberal in what it accepts. Folding is strict in what it
// generates.
package headervalue
