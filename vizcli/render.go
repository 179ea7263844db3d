package vizcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"oss.terrastruct.com/util-go/go2"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/vizb/lib/log"
	"oss.terrastruct.com/vizb/vizdoc"
	"oss.terrastruct.com/vizb/vizhtml"
	"oss.terrastruct.com/vizb/vizrequire"
	"oss.terrastruct.com/vizb/vizshape"
	"oss.terrastruct.com/vizb/vizsvg"
	"oss.terrastruct.com/vizb/vizwidget"
)

type format string

const (
	formatHTML format = "html"
	formatSVG  format = "svg"
	formatJSON format = "json"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case formatHTML, formatSVG, formatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format %q (expected html, svg or json)", s)
}

// outputFormat is taken from the extension of outputPath, or from
// stdoutFormat when writing to stdout.
func outputFormat(stdoutFormat, outputPath string) (format, error) {
	if outputPath == "-" {
		return parseFormat(stdoutFormat)
	}
	ext := filepath.Ext(outputPath)
	if ext == "" {
		return "", fmt.Errorf("output %q has no extension (expected .html, .svg or .json)", outputPath)
	}
	return parseFormat(ext)
}

type renderOpts struct {
	format        format
	title         string
	pad           float64
	pretty        bool
	bundle        bool
	bustCache     bool
	loaderURL     string
	background    string
	autoTextColor bool
}

func render(ctx context.Context, ms *xmain.State, opts renderOpts, inputPath, outputPath string) error {
	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}
	doc, err := vizdoc.ParseBytes(inputPath, input)
	if err != nil {
		return err
	}
	if doc.Title != "" {
		opts.title = doc.Title
	}
	shape, err := doc.Shape()
	if err != nil {
		return err
	}
	log.Debug(ctx, "parsed layout")

	out, err := renderShape(ctx, shape, opts)
	if err != nil {
		return err
	}
	return ms.WritePath(outputPath, out)
}

func renderShape(ctx context.Context, shape vizshape.Shape, opts renderOpts) ([]byte, error) {
	switch opts.format {
	case formatSVG:
		return vizsvg.Render(shape, &vizsvg.RenderOpts{
			Pad:           go2.Pointer(opts.pad),
			Background:    opts.background,
			AutoTextColor: opts.autoTextColor,
		})
	case formatJSON:
		b, err := vizshape.ToJSON(vizshape.Rects(shape.Shapes()))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		err = json.Indent(&buf, b, "", "  ")
		if err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	default:
		config := vizrequire.DefaultConfig()
		config.BustCache = opts.bustCache
		config.LoaderURL = opts.loaderURL
		widget, err := vizwidget.Shapes(ctx, shape, &vizwidget.Opts{
			Config:     config,
			Bundle:     opts.bundle,
			Pad:        go2.Pointer(opts.pad),
			Background: opts.background,
		})
		if err != nil {
			return nil, err
		}
		page := vizwidget.Page(opts.title, widget)
		if opts.pretty {
			page = vizhtml.Prettify(ctx, page)
		}
		return []byte(page + "\n"), nil
	}
}
