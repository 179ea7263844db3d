package vizrequire

import (
	"context"
	"path"
	"strings"

	"cdr.dev/slog"

	"oss.terrastruct.com/vizb/lib/datauri"
	"oss.terrastruct.com/vizb/lib/log"
)

// Bundle returns a copy of c with every remote path and the loader inlined
// as data URIs, so that the output works offline. Resources that fail to
// fetch are logged and keep their URL.
func Bundle(ctx context.Context, c *Config) *Config {
	out := c.Clone()

	var urls []string
	for _, p := range out.Paths {
		if isRemote(p) {
			urls = append(urls, fetchURL(p))
		}
	}
	loader := out.Loader()
	if isRemote(loader) {
		urls = append(urls, loader)
	}

	fetched := datauri.FetchAll(ctx, urls)
	log.Info(ctx, "bundled resources", slog.F("inlined", len(fetched)), slog.F("total", len(urls)))
	for name, p := range out.Paths {
		if uri, ok := fetched[fetchURL(p)]; ok {
			out.Paths[name] = uri
		}
	}
	if uri, ok := fetched[loader]; ok {
		out.LoaderURL = uri
	}
	return out
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// fetchURL is the URL RequireJS would request for p.
func fetchURL(p string) string {
	if path.Ext(p) == ".js" {
		return p
	}
	return p + ".js"
}
