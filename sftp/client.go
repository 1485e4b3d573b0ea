package sftp

// Client is the contract a remote file-system client provides to the
// refs it produces. Implementations own the wire protocol, connection
// lifecycle, authentication, and timeout policy; a File only calls
// back through this interface.
//
// All methods block until the remote round trip completes or fails.
// Failures surface either as *StatusError (the server reported a
// protocol status) or as a transport error from the implementation;
// refs propagate both unchanged.
type Client interface {
	// Getwd returns the client's default working directory. Parents of
	// bare relative names resolve against it.
	Getwd() (string, error)

	// Lookup resolves path into a ref bound to this client.
	// Implementations may pre-populate the ref's attributes, e.g. from
	// a directory listing or a stat performed during resolution.
	Lookup(path string) (*File, error)

	// RealPath canonicalizes path into an absolute path with "." and
	// ".." segments resolved. Resolution follows server semantics and
	// may itself perform a round trip.
	RealPath(path string) (string, error)

	// Stat fetches the attributes of the object at path.
	Stat(path string) (FileAttributes, error)

	// Remove deletes the file at path. Directories are rejected; use
	// RemoveDirectory.
	Remove(path string) error

	// RemoveDirectory deletes the directory at path.
	RemoveDirectory(path string) error

	// CloseFile releases f's open handle on the server and clears the
	// handle on success. Closing a ref that holds no handle is a no-op.
	CloseFile(f *File) error
}

// Opener is an optional capability for clients that can open transfer
// handles. Use a type assertion to check for it:
//
//	if op, ok := client.(Opener); ok {
//	    ref, err := op.OpenFile("/data/report.csv")
//	}
//
// The data path for reading and writing through an open handle is
// owned by the client; this package only tracks handle presence.
type Opener interface {
	// OpenFile opens the file at path for transfer and returns a ref
	// carrying the issued handle.
	OpenFile(path string) (*File, error)
}
