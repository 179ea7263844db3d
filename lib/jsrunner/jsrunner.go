// Package jsrunner runs JavaScript in an embedded goja VM.
//
// Generated scripts are syntax checked with Check before they are handed to
// a browser, and tests execute them against stub browser globals with a
// Runner.
package jsrunner

import (
	"context"
	"fmt"
	"strings"

	"cdr.dev/slog"
	"github.com/dop251/goja"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/vizb/lib/log"
)

type Runner struct {
	vm *goja.Runtime
}

// New returns a Runner whose console.log and console.error write to the
// logger in ctx.
func New(ctx context.Context) (*Runner, error) {
	r := &Runner{vm: goja.New()}
	if err := r.vm.Set("console", r.console(ctx)); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) RunString(code string) (goja.Value, error) {
	return r.vm.RunString(code)
}

// Set defines a global. Go funcs and maps are converted by goja.
func (r *Runner) Set(name string, value interface{}) error {
	return r.vm.Set(name, value)
}

// Get returns the global name or nil if it is undefined.
func (r *Runner) Get(name string) goja.Value {
	return r.vm.Get(name)
}

func (r *Runner) NewObject() *goja.Object {
	return r.vm.NewObject()
}

func (r *Runner) console(ctx context.Context) *goja.Object {
	console := r.vm.NewObject()
	join := func(call goja.FunctionCall) string {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = fmt.Sprint(arg.Export())
		}
		return strings.Join(args, " ")
	}
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		log.Debug(ctx, "console.log", slog.F("msg", join(call)))
		return goja.Undefined()
	})
	_ = console.Set("error", func(call goja.FunctionCall) goja.Value {
		log.Warn(ctx, "console.error", slog.F("msg", join(call)))
		return goja.Undefined()
	})
	return console
}

// Check compiles code without running it and reports syntax errors.
func Check(name, code string) (err error) {
	defer xdefer.Errorf(&err, "failed to parse %s", name)
	_, err = goja.Compile(name, code, false)
	return err
}
