// Package inspect renders framed payloads as annotated human-readable
// trees for debugging and tooling. It walks the wire bytes directly, so
// output carries byte offsets and tag names rather than only decoded
// values. Fallback-encoded frames cannot be walked tag by tag and are
// rendered from their decoded form instead.
package inspect
