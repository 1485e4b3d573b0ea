// Package sftp models references to files and directories on a remote
// SFTP-style server.
//
// The central type is File: an in-memory reference to a single remote
// object. A File normalizes its path once at construction, resolves its
// parent through the client that produced it, lazily fetches attributes
// on first use, and tracks an optional open transfer handle. It performs
// no protocol I/O itself; every remote round trip goes through the
// Client interface.
//
// Usage:
//
//	ref, err := client.Lookup("/var/log/syslog")
//	if err != nil {
//	    return err
//	}
//
//	ok, err := ref.CanRead()
//	parent, err := ref.Parent()
//	err = ref.Delete()
//
// Refs can also be constructed directly when only path queries are
// needed:
//
//	ref := sftp.NewFile(nil, "/var/log/syslog")
//	ref.Name() // "syslog"
//
// A ref built without a client fails any operation that would contact
// the server with ErrNotConnected.
//
// # Errors
//
// Remote failures surface as *StatusError carrying the server's status
// code; use IsStatus to test for a specific condition. Errors from
// client calls are propagated unchanged, with no retry or recovery in
// this package. Classify maps status errors onto the shared structured
// error codes for callers that route on code rather than status.
//
// # Concurrency
//
// A File is owned by one logical caller at a time: its attribute cache
// and handle are mutated without locking. Share refs across goroutines
// only with external synchronization. Client implementations document
// their own concurrency guarantees.
package sftp
