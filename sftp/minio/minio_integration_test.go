package minio

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/husttom/j2ssh-maverick/sftp"
	"github.com/husttom/j2ssh-maverick/sftp/sftptest"
)

// setupMinIOContainer starts a MinIO container and returns endpoint and cleanup function.
func setupMinIOContainer(t *testing.T) (string, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	minioC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")

	endpoint, err := minioC.Endpoint(ctx, "")
	require.NoError(t, err, "failed to get container endpoint")

	cleanup := func() {
		_ = minioC.Terminate(ctx)
	}

	return endpoint, cleanup
}

var bucketSeq atomic.Int64

// setupClient creates a client against a fresh bucket so tests cannot
// observe each other's objects.
func setupClient(t *testing.T, endpoint, prefix string) *MinioClient {
	t.Helper()

	ctx := context.Background()

	raw, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err, "failed to create MinIO client")

	bucketName := fmt.Sprintf("conformance-%d", bucketSeq.Add(1))
	err = raw.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	require.NoError(t, err, "failed to create test bucket")

	client, err := NewMinIO(Config{
		Client: raw,
		Bucket: bucketName,
		Prefix: prefix,
	})
	require.NoError(t, err, "failed to create client")

	return client
}

// seedObject writes an object through the raw store client.
func seedObject(client *MinioClient, p string, data []byte) error {
	abs, err := client.RealPath(p)
	if err != nil {
		return err
	}
	_, err = client.client.PutObject(context.Background(), client.bucket, client.key(abs),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// TestMinioConformance runs the sftptest conformance suite with object
// store configuration: directories are virtual and deletes are
// idempotent.
func TestMinioConformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	endpoint, cleanup := setupMinIOContainer(t)
	defer cleanup()

	newHarness := func() *sftptest.Harness {
		client := setupClient(t, endpoint, "")
		return &sftptest.Harness{
			Client: client,
			WriteFile: func(p string, data []byte) error {
				return seedObject(client, p, data)
			},
			// Directories exist only as key prefixes.
			MkdirAll: func(string) error { return nil },
		}
	}

	sftptest.TestClientWithConfig(t, newHarness, sftptest.ObjectStoreConfig())
}

// TestPrefixIsolation verifies two clients with different key prefixes
// on the same bucket cannot observe each other's objects.
func TestPrefixIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	endpoint, cleanup := setupMinIOContainer(t)
	defer cleanup()

	alpha := setupClient(t, endpoint, "alpha")
	beta, err := NewMinIO(Config{
		Client: alpha.client,
		Bucket: alpha.bucket,
		Prefix: "beta",
	})
	require.NoError(t, err)

	require.NoError(t, seedObject(alpha, "/shared.txt", []byte("alpha data")))

	attrs, err := alpha.Stat("/shared.txt")
	require.NoError(t, err)
	assert.True(t, attrs.IsFile())

	_, err = beta.Stat("/shared.txt")
	assert.True(t, sftp.IsStatus(err, sftp.StatusNoSuchFile))
}

// TestRemoveDirectoryRecursive verifies prefix deletion drains nested
// trees through the bounded worker pool.
func TestRemoveDirectoryRecursive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	endpoint, cleanup := setupMinIOContainer(t)
	defer cleanup()

	client := setupClient(t, endpoint, "")

	// Seed enough objects to keep every worker busy.
	for i := 0; i < 25; i++ {
		p := fmt.Sprintf("/tree/branch-%d/leaf-%d.txt", i%5, i)
		require.NoError(t, seedObject(client, p, []byte("leaf")))
	}
	require.NoError(t, seedObject(client, "/keep.txt", []byte("survivor")))

	require.NoError(t, client.RemoveDirectory("/tree"))

	_, err := client.Stat("/tree")
	assert.True(t, sftp.IsStatus(err, sftp.StatusNoSuchFile), "Stat(/tree) after removal = %v", err)

	// Objects outside the prefix survive.
	attrs, err := client.Stat("/keep.txt")
	require.NoError(t, err)
	assert.True(t, attrs.IsFile())
}

// TestDeleteViaRef verifies ref-driven deletion dispatches on the
// object type: files are removed singly, directories by prefix.
func TestDeleteViaRef(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	endpoint, cleanup := setupMinIOContainer(t)
	defer cleanup()

	client := setupClient(t, endpoint, "")
	require.NoError(t, seedObject(client, "/inbox/a.txt", []byte("a")))
	require.NoError(t, seedObject(client, "/inbox/b.txt", []byte("b")))

	ref, err := client.Lookup("/inbox")
	require.NoError(t, err)

	isDir, err := ref.IsDirectory()
	require.NoError(t, err)
	require.True(t, isDir)

	require.NoError(t, ref.Delete())

	_, err = client.Stat("/inbox")
	assert.True(t, sftp.IsStatus(err, sftp.StatusNoSuchFile))
}

// TestHandleLifecycle verifies handle issuance against live object
// state.
func TestHandleLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	endpoint, cleanup := setupMinIOContainer(t)
	defer cleanup()

	client := setupClient(t, endpoint, "")
	require.NoError(t, seedObject(client, "/transfer.bin", []byte("payload")))

	ref, err := client.OpenFile("/transfer.bin")
	require.NoError(t, err)
	assert.True(t, ref.IsOpen())

	require.NoError(t, ref.Close())
	assert.False(t, ref.IsOpen())

	_, err = client.OpenFile("/nope.bin")
	assert.True(t, sftp.IsStatus(err, sftp.StatusNoSuchFile))
}
