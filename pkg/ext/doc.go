// Package ext provides the built-in structured-extension types: fixed
// layout values matched ahead of the generic collection path so they
// encode as a tag plus a compact fixed-size payload.
//
// Call Register once at process startup before encoding any of these
// types. Register is idempotent, so multiple packages (or tests) may
// call it safely. The registrations also serve as the reference pattern
// for host-owned extensions.
package ext
