// Package datauri encodes local and remote resources as RFC 2397 data URIs
// so that generated documents can be viewed offline.
package datauri

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cdr.dev/slog"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/vizb/lib/log"
)

const Prefix = "data:"

// MaxSize bounds a single fetched resource.
const MaxSize = 16 << 20

var transport = http.DefaultTransport

// cache maps URL to its data URI for the life of the process.
var cache sync.Map

func Encode(mimeType string, data []byte) string {
	return fmt.Sprintf("%s%s;base64,%s", Prefix, mimeType, base64.StdEncoding.EncodeToString(data))
}

func IsDataURI(s string) bool {
	return strings.HasPrefix(s, Prefix)
}

// ReadFile encodes a local file. The mime type comes from the extension and
// falls back to content sniffing.
func ReadFile(path string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to read %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Encode(detect(filepath.Ext(path), "", data), data), nil
}

// Fetch downloads url and encodes it. Results are cached.
func Fetch(ctx context.Context, url string) (_ string, err error) {
	if v, ok := cache.Load(url); ok {
		return v.(string), nil
	}
	defer xdefer.Errorf(&err, "failed to fetch %s", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Transport: transport}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("expected status 200 but got %d %s", resp.StatusCode, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("resource exceeds %d bytes", MaxSize)
	}

	uri := Encode(detect(filepath.Ext(req.URL.Path), resp.Header.Get("Content-Type"), data), data)
	cache.Store(url, uri)
	return uri, nil
}

// FetchAll fetches every url concurrently. Failures are logged and left out
// of the returned map.
func FetchAll(ctx context.Context, urls []string) map[string]string {
	type result struct {
		url string
		uri string
		err error
	}

	results := make(chan result)
	var wg sync.WaitGroup
	wg.Add(len(urls))
	for _, u := range urls {
		go func(u string) {
			defer wg.Done()
			uri, err := Fetch(ctx, u)
			results <- result{url: u, uri: uri, err: err}
		}(u)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]string, len(urls))
	for r := range results {
		if r.err != nil {
			log.Warn(ctx, "resource failed to fetch, keeping the url", slog.F("url", r.url), slog.Error(r.err))
			continue
		}
		out[r.url] = r.uri
	}
	return out
}

func detect(ext, header string, data []byte) string {
	switch strings.ToLower(ext) {
	case ".js", ".mjs":
		return "application/javascript"
	case ".svg":
		return "image/svg+xml"
	}
	mimeType := header
	if mimeType == "" {
		mimeType = mime.TypeByExtension(ext)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return strings.Replace(mimeType, "text/xml", "image/svg+xml", 1)
}
