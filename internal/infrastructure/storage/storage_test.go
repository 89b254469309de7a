package storage

import (
	"context"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_LoadAndPut(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "diploma.pdf"), []byte("%PDF"), 0o644))
	store := NewFSStore(root)

	b, err := store.Load(context.Background(), "diploma.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b))

	_, err = store.Load(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = store.Load(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)

	require.NoError(t, store.Put(context.Background(), "diplomas/cup/a.pdf", "application/pdf", []byte("x")))
	b, err = os.ReadFile(filepath.Join(root, "diplomas", "cup", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestHTTPStore_Load(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/assets/diploma_first.pdf":
			_, _ = w.Write([]byte("%PDF-first"))
		case "/assets/broken.pdf":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	store, err := NewHTTPStore(srv.URL+"/assets", srv.Client())
	require.NoError(t, err)

	b, err := store.Load(context.Background(), "diploma_first.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-first", string(b))

	_, err = store.Load(context.Background(), "diploma_second.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = store.Load(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

type countingLoader struct {
	calls atomic.Int32
}

func (l *countingLoader) Load(_ context.Context, name string) ([]byte, error) {
	l.calls.Add(1)
	time.Sleep(10 * time.Millisecond)
	if name == "missing.pdf" {
		return nil, ErrObjectNotFound
	}
	return []byte(name), nil
}

func TestCachedStore_LoadsOncePerName(t *testing.T) {
	t.Parallel()

	next := &countingLoader{}
	store := NewCachedStore(next, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := store.Load(context.Background(), "font.ttf")
			assert.NoError(t, err)
			assert.Equal(t, "font.ttf", string(b))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), next.calls.Load())

	_, err := store.Load(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	_, err = store.Load(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, int32(3), next.calls.Load())

	store.Invalidate(context.Background(), "font.ttf")
	_, err = store.Load(context.Background(), "font.ttf")
	require.NoError(t, err)
	assert.Equal(t, int32(4), next.calls.Load())
}

func TestS3Store_LoadAndPutPathStyle(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	objects := map[string][]byte{"/awards/templates/diploma.pdf": []byte("%PDF-s3")}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			body, ok := objects[r.URL.Path]
			if !ok {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(body)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = body
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), S3Config{
		Endpoint:        srv.URL,
		Region:          "auto",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		Bucket:          "awards",
		Prefix:          "templates",
		HTTPClient:      srv.Client(),
	})
	require.NoError(t, err)

	b, err := store.Load(context.Background(), "diploma.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-s3", string(b))

	_, err = store.Load(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, store.Put(context.Background(), "out/a.pdf", "application/pdf", []byte("%PDF-out")))
	mu.Lock()
	stored := objects["/awards/templates/out/a.pdf"]
	mu.Unlock()
	assert.True(t, strings.Contains(string(stored), "%PDF-out"))
}

func TestS3Store_TrustsCABundleFromEnv(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-tls")
	}))
	t.Cleanup(srv.Close)

	bundle := filepath.Join(t.TempDir(), "ca.pem")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(bundle, certPEM, 0o600))
	t.Setenv("AWS_CA_BUNDLE", bundle)

	store, err := NewS3Store(context.Background(), S3Config{
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		Bucket:          "awards",
	})
	require.NoError(t, err)

	b, err := store.Load(context.Background(), "diploma.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-tls", string(b))
}
