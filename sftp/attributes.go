package sftp

import (
	"io/fs"
	"strings"
	"time"
)

// Permissions is the POSIX mode word carried in a remote file's
// attributes: a four-bit type field plus the setuid/setgid/sticky bits
// and the nine owner/group/other permission bits.
type Permissions uint32

// Type field values. The type occupies the top nibble of the mode word
// and holds exactly one of these values; extract it with TypeMask or
// the Type method before comparing.
const (
	TypeFIFO        Permissions = 0x1000
	TypeCharDevice  Permissions = 0x2000
	TypeDirectory   Permissions = 0x4000
	TypeBlockDevice Permissions = 0x6000
	TypeRegular     Permissions = 0x8000
	TypeSymlink     Permissions = 0xA000
	TypeSocket      Permissions = 0xC000

	// TypeMask isolates the type field from the mode word.
	TypeMask Permissions = 0xF000
)

// Mode bits below the type field.
const (
	SetUID Permissions = 0o4000
	SetGID Permissions = 0o2000
	Sticky Permissions = 0o1000

	OwnerRead  Permissions = 0o400
	OwnerWrite Permissions = 0o200
	OwnerExec  Permissions = 0o100
	GroupRead  Permissions = 0o040
	GroupWrite Permissions = 0o020
	GroupExec  Permissions = 0o010
	OtherRead  Permissions = 0o004
	OtherWrite Permissions = 0o002
	OtherExec  Permissions = 0o001
)

// Type returns the type field of the mode word.
func (p Permissions) Type() Permissions {
	return p & TypeMask
}

// IsDirectory reports whether the type field marks a directory.
func (p Permissions) IsDirectory() bool {
	return p&TypeMask == TypeDirectory
}

// IsRegular reports whether the type field marks a regular file.
func (p Permissions) IsRegular() bool {
	return p&TypeMask == TypeRegular
}

// IsSymlink reports whether the type field marks a symbolic link.
func (p Permissions) IsSymlink() bool {
	return p&TypeMask == TypeSymlink
}

// IsFIFO reports whether the type field marks a named pipe.
func (p Permissions) IsFIFO() bool {
	return p&TypeMask == TypeFIFO
}

// IsBlockDevice reports whether the type field marks a block device.
func (p Permissions) IsBlockDevice() bool {
	return p&TypeMask == TypeBlockDevice
}

// IsCharDevice reports whether the type field marks a character device.
func (p Permissions) IsCharDevice() bool {
	return p&TypeMask == TypeCharDevice
}

// IsSocket reports whether the type field marks a socket.
func (p Permissions) IsSocket() bool {
	return p&TypeMask == TypeSocket
}

// CanRead reports whether any of the owner, group, or other read bits
// is set. The server makes the real access decision; this is a local
// hint that does not consider the caller's identity.
func (p Permissions) CanRead() bool {
	return p&(OwnerRead|GroupRead|OtherRead) != 0
}

// CanWrite reports whether any of the owner, group, or other write
// bits is set.
func (p Permissions) CanWrite() bool {
	return p&(OwnerWrite|GroupWrite|OtherWrite) != 0
}

// CanExecute reports whether any of the owner, group, or other execute
// bits is set.
func (p Permissions) CanExecute() bool {
	return p&(OwnerExec|GroupExec|OtherExec) != 0
}

// String renders the mode word in ls -l form, e.g. "drwxr-xr-x".
func (p Permissions) String() string {
	var b strings.Builder
	switch p & TypeMask {
	case TypeDirectory:
		b.WriteByte('d')
	case TypeSymlink:
		b.WriteByte('l')
	case TypeFIFO:
		b.WriteByte('p')
	case TypeBlockDevice:
		b.WriteByte('b')
	case TypeCharDevice:
		b.WriteByte('c')
	case TypeSocket:
		b.WriteByte('s')
	default:
		b.WriteByte('-')
	}

	bits := []struct {
		bit Permissions
		c   byte
	}{
		{OwnerRead, 'r'}, {OwnerWrite, 'w'}, {OwnerExec, 'x'},
		{GroupRead, 'r'}, {GroupWrite, 'w'}, {GroupExec, 'x'},
		{OtherRead, 'r'}, {OtherWrite, 'w'}, {OtherExec, 'x'},
	}
	for _, entry := range bits {
		if p&entry.bit != 0 {
			b.WriteByte(entry.c)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Octal renders the permission bits (without the type field) as a
// four-digit octal string, e.g. "0755".
func (p Permissions) Octal() string {
	const digits = "01234567"
	v := p &^ TypeMask
	return string([]byte{
		'0',
		digits[(v>>6)&0o7],
		digits[(v>>3)&0o7],
		digits[v&0o7],
	})
}

// FileMode converts the mode word to the stdlib fs.FileMode
// representation.
func (p Permissions) FileMode() fs.FileMode {
	mode := fs.FileMode(p & 0o777)
	switch p & TypeMask {
	case TypeDirectory:
		mode |= fs.ModeDir
	case TypeSymlink:
		mode |= fs.ModeSymlink
	case TypeFIFO:
		mode |= fs.ModeNamedPipe
	case TypeSocket:
		mode |= fs.ModeSocket
	case TypeCharDevice:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case TypeBlockDevice:
		mode |= fs.ModeDevice
	}
	if p&SetUID != 0 {
		mode |= fs.ModeSetuid
	}
	if p&SetGID != 0 {
		mode |= fs.ModeSetgid
	}
	if p&Sticky != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

// PermissionsFromFileMode converts a stdlib fs.FileMode to the mode
// word representation.
func PermissionsFromFileMode(mode fs.FileMode) Permissions {
	p := Permissions(mode.Perm())
	switch {
	case mode.IsDir():
		p |= TypeDirectory
	case mode&fs.ModeSymlink != 0:
		p |= TypeSymlink
	case mode&fs.ModeNamedPipe != 0:
		p |= TypeFIFO
	case mode&fs.ModeSocket != 0:
		p |= TypeSocket
	case mode&fs.ModeCharDevice != 0:
		p |= TypeCharDevice
	case mode&fs.ModeDevice != 0:
		p |= TypeBlockDevice
	default:
		p |= TypeRegular
	}
	if mode&fs.ModeSetuid != 0 {
		p |= SetUID
	}
	if mode&fs.ModeSetgid != 0 {
		p |= SetGID
	}
	if mode&fs.ModeSticky != 0 {
		p |= Sticky
	}
	return p
}

// FileAttributes is the metadata bundle describing a remote object.
// The wire encoding belongs to client implementations; this package
// consumes only the decoded form.
type FileAttributes struct {
	// Size is the object size in bytes.
	Size int64

	// UID and GID identify the owning user and group.
	UID uint32
	GID uint32

	// Permissions is the POSIX mode word (type field plus permission
	// bits).
	Permissions Permissions

	// AccessTime and ModTime are the last access and last modification
	// times.
	AccessTime time.Time
	ModTime    time.Time
}

// IsDirectory reports whether the attributes describe a directory.
func (a FileAttributes) IsDirectory() bool {
	return a.Permissions.IsDirectory()
}

// IsFile reports whether the attributes describe a regular file.
// A symbolic link pointing at a regular file reports false.
func (a FileAttributes) IsFile() bool {
	return a.Permissions.IsRegular()
}

// IsLink reports whether the attributes describe a symbolic link.
func (a FileAttributes) IsLink() bool {
	return a.Permissions.IsSymlink()
}

// AttributesFromFileInfo builds FileAttributes from stdlib file
// metadata. Ownership is not carried by fs.FileInfo; UID and GID are
// left zero. The access time is approximated by the modification time.
func AttributesFromFileInfo(info fs.FileInfo) FileAttributes {
	return FileAttributes{
		Size:        info.Size(),
		Permissions: PermissionsFromFileMode(info.Mode()),
		AccessTime:  info.ModTime(),
		ModTime:     info.ModTime(),
	}
}
