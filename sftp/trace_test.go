package sftp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// openingClient extends the scripted stub with handle opening.
type openingClient struct {
	scriptedClient
	opened []string
}

func (o *openingClient) OpenFile(path string) (*File, error) {
	o.opened = append(o.opened, path)
	f := NewFile(o, path)
	f.SetHandle([]byte{0xAB})
	return f, nil
}

func observedTracer(inner Client) (Client, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewTracingClient(inner, zap.New(core)), logs
}

func TestTracingClient_LogsRoundTrips(t *testing.T) {
	inner := &scriptedClient{
		stat: statReturning(FileAttributes{Permissions: TypeRegular | 0o644}),
	}
	tracer, logs := observedTracer(inner)

	_, err := tracer.Stat("/data.txt")
	require.NoError(t, err)
	require.NoError(t, tracer.Remove("/data.txt"))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "sftp round trip", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "stat", fields["op"])
	assert.Equal(t, "/data.txt", fields["path"])
	assert.Contains(t, fields, "elapsed")
	assert.NotContains(t, fields, "error")

	assert.Equal(t, "remove", entries[1].ContextMap()["op"])
}

func TestTracingClient_LogsErrors(t *testing.T) {
	statErr := &StatusError{Status: StatusNoSuchFile, Path: "/gone.txt"}
	inner := &scriptedClient{
		stat: func(string) (FileAttributes, error) {
			return FileAttributes{}, statErr
		},
	}
	tracer, logs := observedTracer(inner)

	_, err := tracer.Stat("/gone.txt")
	assert.ErrorIs(t, err, statErr)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "error")
}

func TestTracingClient_RebindsLookups(t *testing.T) {
	inner := &scriptedClient{}
	tracer, logs := observedTracer(inner)

	ref, err := tracer.Lookup("/var/log")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Same(t, tracer, ref.Client())

	// Calls driven by the rebound ref go through the wrapper.
	_, err = ref.Attributes()
	require.NoError(t, err)

	ops := make([]string, 0, 2)
	for _, entry := range logs.All() {
		ops = append(ops, entry.ContextMap()["op"].(string))
	}
	assert.Equal(t, []string{"lookup", "stat"}, ops)
}

func TestTracingClient_MirrorsOpenerCapability(t *testing.T) {
	t.Run("Hidden", func(t *testing.T) {
		tracer, _ := observedTracer(&scriptedClient{})

		_, ok := tracer.(Opener)
		assert.False(t, ok, "wrapper of a core client must not advertise Opener")
	})

	t.Run("Advertised", func(t *testing.T) {
		tracer, _ := observedTracer(&openingClient{})

		_, ok := tracer.(Opener)
		assert.True(t, ok, "wrapper of an opening client must advertise Opener")
	})
}

func TestTracingClient_OpenFile(t *testing.T) {
	inner := &openingClient{}
	tracer, logs := observedTracer(inner)

	opener, ok := tracer.(Opener)
	require.True(t, ok)

	ref, err := opener.OpenFile("/data.txt")
	require.NoError(t, err)
	assert.True(t, ref.IsOpen())
	assert.Equal(t, []string{"/data.txt"}, inner.opened)

	// The rebound ref carries the opener-capable wrapper.
	assert.Same(t, tracer, ref.Client())
	_, ok = ref.Client().(Opener)
	assert.True(t, ok)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "open", entries[0].ContextMap()["op"])
}

func TestTracingClient_Underlying(t *testing.T) {
	t.Run("CoreClient", func(t *testing.T) {
		inner := &scriptedClient{}
		tracer := NewTracingClient(inner, nil)
		assert.Same(t, inner, tracer.(*TracingClient).Underlying())
	})

	t.Run("OpeningClient", func(t *testing.T) {
		inner := &openingClient{}
		tracer := NewTracingClient(inner, nil)

		u, ok := tracer.(interface{ Underlying() Client })
		require.True(t, ok)
		assert.Same(t, inner, u.Underlying())
	})
}

func TestTracingClient_NilLogger(t *testing.T) {
	tracer := NewTracingClient(&scriptedClient{}, nil)

	_, err := tracer.Getwd()
	assert.NoError(t, err)
}
