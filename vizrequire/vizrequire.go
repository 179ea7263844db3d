// Package vizrequire generates the script that makes sure a RequireJS
// runtime is present and then runs user code with configured modules.
//
// The generated script is safe to embed several times in one page. When no
// loader is present the first script injects it and later ones queue until it
// has loaded.
package vizrequire

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/vizb/lib/env"
	"oss.terrastruct.com/vizb/lib/jsrunner"
)

const DefaultLoaderURL = "https://cdnjs.cloudflare.com/ajax/libs/require.js/2.3.6/require.min.js"

const (
	D3URL    = "https://d3js.org/d3.v7.min"
	RoughURL = "https://unpkg.com/roughjs@4.6.6/bundled/rough"
)

// Shim configures a module that does not call define itself.
type Shim struct {
	Exports string   `json:"exports,omitempty"`
	Deps    []string `json:"deps,omitempty"`
}

type Config struct {
	// Paths maps a module name to a URL or data URI. URLs may carry a .js
	// extension; it is dropped since RequireJS appends its own.
	Paths map[string]string
	Shims map[string]Shim
	// Modules are loaded in order and passed to the user code under
	// identifier-safe names. Defaults to the sorted keys of Paths.
	Modules []string
	// BustCache undefines Modules before reconfiguring so that re-running
	// a cell picks up changed paths.
	BustCache bool
	// LoaderURL defaults to VIZB_LOADER_URL and then DefaultLoaderURL.
	LoaderURL string
}

// DefaultConfig loads d3 and rough.js.
func DefaultConfig() *Config {
	return &Config{
		Paths: map[string]string{
			"d3":    D3URL,
			"rough": RoughURL,
		},
		Shims: map[string]Shim{
			"d3":    {Exports: "d3"},
			"rough": {Exports: "rough"},
		},
		Modules: []string{"d3", "rough"},
	}
}

// D3 wraps userCode so that it runs with d3 in scope.
func D3(userCode string) (string, error) {
	c := &Config{
		Paths: map[string]string{"d3": D3URL},
		Shims: map[string]Shim{"d3": {Exports: "d3"}},
	}
	return c.Script(userCode)
}

func (c *Config) Clone() *Config {
	out := &Config{
		Paths:     make(map[string]string, len(c.Paths)),
		Shims:     make(map[string]Shim, len(c.Shims)),
		Modules:   append([]string(nil), c.Modules...),
		BustCache: c.BustCache,
		LoaderURL: c.LoaderURL,
	}
	for k, v := range c.Paths {
		out.Paths[k] = v
	}
	for k, v := range c.Shims {
		v.Deps = append([]string(nil), v.Deps...)
		out.Shims[k] = v
	}
	return out
}

func (c *Config) Loader() string {
	if c.LoaderURL != "" {
		return c.LoaderURL
	}
	if u := env.LoaderURL(); u != "" {
		return u
	}
	return DefaultLoaderURL
}

func (c *Config) modules() ([]string, error) {
	modules := c.Modules
	if len(modules) == 0 {
		for name := range c.Paths {
			modules = append(modules, name)
		}
		sort.Strings(modules)
	}
	for _, m := range modules {
		if strings.TrimSpace(m) == "" {
			return nil, fmt.Errorf("module names must not be empty")
		}
	}
	return modules, nil
}

// Script returns JavaScript that ensures a loader, configures it and runs
// userCode inside the require callback.
func (c *Config) Script(userCode string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to generate loader script")

	modules, err := c.modules()
	if err != nil {
		return "", err
	}

	paths := make(map[string]string, len(c.Paths))
	for name, p := range c.Paths {
		if strings.TrimSpace(name) == "" {
			return "", fmt.Errorf("path for %q has an empty module name", p)
		}
		paths[name] = requirePath(p)
	}
	cfgJSON, err := json.Marshal(struct {
		Paths map[string]string `json:"paths,omitempty"`
		Shim  map[string]Shim   `json:"shim,omitempty"`
	}{paths, c.Shims})
	if err != nil {
		return "", err
	}
	modulesJSON, err := json.Marshal(modules)
	if err != nil {
		return "", err
	}
	loaderJSON, err := json.Marshal(c.Loader())
	if err != nil {
		return "", err
	}

	params := ParamNames(modules)
	script := func(body string) string {
		return shim(c.BustCache, cfgJSON, modulesJSON, loaderJSON, params, body)
	}
	// userCode is left out of the check since goja lags browsers on syntax.
	if err := jsrunner.Check("loader script", script("")); err != nil {
		return "", err
	}
	return script(userCode), nil
}

func shim(bustCache bool, cfgJSON, modulesJSON, loaderJSON []byte, params []string, userCode string) string {
	var sb strings.Builder
	sb.WriteString("(function() {\n")
	sb.WriteString("  var w = typeof window !== \"undefined\" ? window : globalThis;\n")
	sb.WriteString("  function run() {\n")
	sb.WriteString("    var req = w.requirejs || w.require;\n")
	if bustCache {
		fmt.Fprintf(&sb, "    %s.forEach(function(m) {\n", modulesJSON)
		sb.WriteString("      if (req.defined(m) || req.specified(m)) {\n")
		sb.WriteString("        req.undef(m);\n")
		sb.WriteString("      }\n")
		sb.WriteString("    });\n")
	}
	fmt.Fprintf(&sb, "    req.config(%s);\n", cfgJSON)
	fmt.Fprintf(&sb, "    req(%s, function(%s) {\n", modulesJSON, strings.Join(params, ", "))
	sb.WriteString(userCode)
	sb.WriteString("\n    });\n")
	sb.WriteString("  }\n")
	sb.WriteString("  var existing = w.requirejs || w.require;\n")
	sb.WriteString("  if (existing && typeof existing.config === \"function\") {\n")
	sb.WriteString("    run();\n")
	sb.WriteString("    return;\n")
	sb.WriteString("  }\n")
	sb.WriteString("  if (w.__vizbPending) {\n")
	sb.WriteString("    w.__vizbPending.push(run);\n")
	sb.WriteString("    return;\n")
	sb.WriteString("  }\n")
	sb.WriteString("  w.__vizbPending = [run];\n")
	sb.WriteString("  var s = document.createElement(\"script\");\n")
	fmt.Fprintf(&sb, "  s.src = %s;\n", loaderJSON)
	sb.WriteString("  s.onload = function() {\n")
	sb.WriteString("    var pending = w.__vizbPending;\n")
	sb.WriteString("    w.__vizbPending = null;\n")
	sb.WriteString("    pending.forEach(function(f) { f(); });\n")
	sb.WriteString("  };\n")
	sb.WriteString("  s.onerror = function() {\n")
	sb.WriteString("    w.__vizbPending = null;\n")
	sb.WriteString("    console.error(\"vizb: failed to load \" + s.src);\n")
	sb.WriteString("  };\n")
	sb.WriteString("  document.head.appendChild(s);\n")
	sb.WriteString("})();\n")

	return sb.String()
}

// requirePath drops the .js extension RequireJS would otherwise double.
// Data URIs are left alone as RequireJS never appends to them.
func requirePath(p string) string {
	if strings.HasPrefix(p, "data:") {
		return p
	}
	return strings.TrimSuffix(p, ".js")
}

var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "enum": {},
	"export": {}, "extends": {}, "false": {}, "finally": {}, "for": {}, "function": {},
	"if": {}, "import": {}, "in": {}, "instanceof": {}, "new": {}, "null": {},
	"return": {}, "super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {}, "with": {},
	"yield": {}, "let": {}, "static": {}, "await": {},
}

// ParamNames turns module names into distinct JavaScript identifiers.
// Characters outside [A-Za-z0-9_$] become underscores, a leading digit gets
// an underscore prefix and reserved words an underscore suffix. Collisions
// are numbered with the first free suffix.
func ParamNames(modules []string) []string {
	seen := make(map[string]struct{}, len(modules))
	out := make([]string, len(modules))
	for i, m := range modules {
		base := identifier(m)
		id := base
		for n := 2; ; n++ {
			if _, ok := seen[id]; !ok {
				break
			}
			id = fmt.Sprintf("%s_%d", base, n)
		}
		seen[id] = struct{}{}
		out[i] = id
	}
	return out
}

func identifier(m string) string {
	var sb strings.Builder
	for i, r := range m {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if _, ok := reservedWords[id]; ok {
		id += "_"
	}
	return id
}
