package sftp_test

import (
	"fmt"

	"github.com/husttom/j2ssh-maverick/sftp"
	"github.com/husttom/j2ssh-maverick/sftp/sftptest"
	platformerrors "github.com/jmgilman/go/errors"
)

func ExampleNewFile() {
	ref := sftp.NewFile(nil, "/var/log/syslog/")
	fmt.Println(ref.Path())
	fmt.Println(ref.Name())
	// Output:
	// /var/log/syslog
	// syslog
}

func ExampleFile_Parent() {
	client, _ := sftptest.New(sftptest.Config{})
	client.MustWriteFile("/var/log/syslog", []byte("boot"))

	ref, _ := client.Lookup("/var/log/syslog")
	parent, _ := ref.Parent()
	fmt.Println(parent.Path())
	// Output: /var/log
}

func ExampleFile_Equal() {
	a := sftp.NewFile(nil, "/data/report.txt")
	b := sftp.NewFile(nil, "/data/report.txt/")
	fmt.Println(a.Equal(b))
	// Output: true
}

func ExampleClassify() {
	err := sftp.Classify(&sftp.StatusError{
		Status: sftp.StatusNoSuchFile,
		Path:   "/gone.txt",
	})
	fmt.Println(platformerrors.GetCode(err))
	// Output: NOT_FOUND
}
