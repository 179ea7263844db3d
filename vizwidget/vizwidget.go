// Package vizwidget builds self-contained interactive widgets: a target div
// plus a script that loads d3 and rough.js through the loader shim and runs
// one of the bundled renderers on JSON data.
package vizwidget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/vizb/vizassets"
	"oss.terrastruct.com/vizb/vizhtml"
	"oss.terrastruct.com/vizb/vizrequire"
	"oss.terrastruct.com/vizb/vizshape"
)

type Opts struct {
	// ID of the target element. Derived from the payload when empty, so the
	// same input always yields the same markup.
	ID string
	// Config defaults to vizrequire.DefaultConfig.
	Config *vizrequire.Config
	// Bundle inlines the loader and modules as data URIs.
	Bundle bool

	Pad        *float64
	Background string
	Title      string
	Width      float64
}

func (o *Opts) config(ctx context.Context) *vizrequire.Config {
	c := o.Config
	if c == nil {
		c = vizrequire.DefaultConfig()
	}
	if o.Bundle {
		c = vizrequire.Bundle(ctx, c)
	}
	return c
}

// Shapes renders the leaf rectangles of shape in the browser. Rects with a
// positive roughness are drawn sketchy.
func Shapes(ctx context.Context, shape vizshape.Shape, opts *Opts) (_ *vizhtml.Element, err error) {
	defer xdefer.Errorf(&err, "failed to build shapes widget")
	if opts == nil {
		opts = &Opts{}
	}

	rects := vizshape.Rects(shape.Shapes())
	if err := vizshape.Validate(rects); err != nil {
		return nil, err
	}
	data, err := vizshape.ToJSON(rects)
	if err != nil {
		return nil, err
	}
	renderOpts, err := json.Marshal(struct {
		Pad        *float64 `json:"pad,omitempty"`
		Background string   `json:"background,omitempty"`
	}{opts.Pad, opts.Background})
	if err != nil {
		return nil, err
	}
	return build(ctx, opts, vizassets.Rects, "vizbRects(d3, rough, %s, %s, %s);", data, renderOpts)
}

type Task struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color string    `json:"color,omitempty"`
}

// Gantt renders one bar per task on a shared time axis.
func Gantt(ctx context.Context, tasks []Task, opts *Opts) (_ *vizhtml.Element, err error) {
	defer xdefer.Errorf(&err, "failed to build gantt widget")
	if opts == nil {
		opts = &Opts{}
	}
	if len(tasks) == 0 {
		return nil, errors.New("no tasks")
	}
	for i, t := range tasks {
		if t.Name == "" {
			return nil, fmt.Errorf("task %d has no name", i)
		}
		if t.End.Before(t.Start) {
			return nil, fmt.Errorf("task %q ends before it starts", t.Name)
		}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, err
	}
	chartOpts, err := json.Marshal(struct {
		Title string  `json:"title,omitempty"`
		Width float64 `json:"width,omitempty"`
	}{opts.Title, opts.Width})
	if err != nil {
		return nil, err
	}
	return build(ctx, opts, vizassets.GanttChart, "vizbGantt(d3, %s, %s, %s);", data, chartOpts)
}

// build wraps the asset and its call in the loader shim. call receives the
// JSON encoded target selector, data and options.
func build(ctx context.Context, opts *Opts, asset, call string, data, callOpts []byte) (*vizhtml.Element, error) {
	id := opts.ID
	if id == "" {
		id = hashID(asset, data, callOpts)
	}
	selector, err := json.Marshal("#" + id)
	if err != nil {
		return nil, err
	}

	src, err := vizassets.Get(asset)
	if err != nil {
		return nil, err
	}
	script, err := opts.config(ctx).Script(src + "\n" + fmt.Sprintf(call, selector, data, callOpts))
	if err != nil {
		return nil, err
	}

	return vizhtml.Div(vizhtml.Attrs{"class_": "vizb-widget"},
		vizhtml.Div(vizhtml.Attrs{"id": id}),
		vizhtml.Script(script),
	), nil
}

func hashID(parts ...interface{}) string {
	h := fnv.New32a()
	for _, p := range parts {
		fmt.Fprintf(h, "%s\x00", p)
	}
	return fmt.Sprintf("vizb-%x", h.Sum32())
}

// Page wraps body in a complete HTML document.
func Page(title string, body ...interface{}) string {
	doc := vizhtml.TagHTML.New(nil,
		vizhtml.TagHead.New(nil,
			vizhtml.TagMeta.New(vizhtml.Attrs{"charset": "utf-8"}),
			vizhtml.TagTitle.New(nil, title),
		),
		vizhtml.TagBody.New(nil, body...),
	)
	return "<!DOCTYPE html>\n" + doc.String()
}
