package vizcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/vizb/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch=false] [--pad=10] layout.json [out.html | out.svg | out.json]
  %[1]s validate layout.json
  %[1]s assets

%[1]s renders a layout document of rects, stacks and grids to an interactive
HTML page, a static SVG or the flattened rects as JSON. Layouts are JSON, or
TOML when the file ends in .toml. The output defaults to layout.html.

Use - to have %[1]s read from stdin or write to stdout.

Flags:
%[3]s

Subcommands:
  %[1]s validate layout.json - Validates layout.json
  %[1]s assets - Lists the bundled JavaScript renderers
  %[1]s version - Prints the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}
