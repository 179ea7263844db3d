package datauri

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/vizb/lib/log"
)

type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func stubTransport(t *testing.T, fn roundTripFunc) {
	prev := transport
	transport = fn
	t.Cleanup(func() { transport = prev })
}

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.String(t, "data:text/plain;base64,aGk=", Encode("text/plain", []byte("hi")))
	assert.True(t, IsDataURI("data:text/plain;base64,aGk="))
	assert.True(t, !IsDataURI("https://example.com/a.js"))
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.WriteFile(t, filepath.Join(dir, "a.js"), []byte("var a;"), 0600)

	uri, err := ReadFile(filepath.Join(dir, "a.js"))
	assert.Success(t, err)
	assert.String(t, Encode("application/javascript", []byte("var a;")), uri)

	_, err = ReadFile(filepath.Join(dir, "missing.js"))
	tassert.Error(t, err)
}

func TestFetch(t *testing.T) {
	stubTransport(t, func(req *http.Request) *http.Response {
		switch req.URL.Path {
		case "/lib.js":
			return &http.Response{
				StatusCode: 200,
				Header:     http.Header{"Content-Type": []string{"text/plain"}},
				Body:       io.NopCloser(strings.NewReader("define([], function() {});")),
			}
		case "/img":
			return &http.Response{
				StatusCode: 200,
				Header:     http.Header{"Content-Type": []string{"image/png; charset=binary"}},
				Body:       io.NopCloser(strings.NewReader("png")),
			}
		}
		return &http.Response{
			StatusCode: 404,
			Status:     "404 Not Found",
			Body:       io.NopCloser(strings.NewReader("")),
		}
	})
	ctx := log.WithTB(context.Background(), t, nil)

	uri, err := Fetch(ctx, "https://fetch.test/lib.js")
	assert.Success(t, err)
	assert.String(t, Encode("application/javascript", []byte("define([], function() {});")), uri)

	uri, err = Fetch(ctx, "https://fetch.test/img")
	assert.Success(t, err)
	assert.String(t, Encode("image/png", []byte("png")), uri)

	_, err = Fetch(ctx, "https://fetch.test/missing.js")
	tassert.Error(t, err)
	tassert.Contains(t, err.Error(), "404")
}

func TestFetchAll(t *testing.T) {
	stubTransport(t, func(req *http.Request) *http.Response {
		if strings.HasSuffix(req.URL.Path, "bad.js") {
			return &http.Response{
				StatusCode: 500,
				Status:     "500 Internal Server Error",
				Body:       io.NopCloser(strings.NewReader("")),
			}
		}
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(req.URL.Path)),
		}
	})
	ctx := log.WithTB(context.Background(), t, nil)

	got := FetchAll(ctx, []string{
		"https://all.test/one.js",
		"https://all.test/two.js",
		"https://all.test/bad.js",
	})
	assert.Equal(t, 2, len(got))
	assert.String(t, Encode("application/javascript", []byte("/one.js")), got["https://all.test/one.js"])
	_, ok := got["https://all.test/bad.js"]
	assert.True(t, !ok)
}
