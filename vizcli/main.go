package vizcli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/vizb/lib/log"
	"oss.terrastruct.com/vizb/lib/version"
	"oss.terrastruct.com/vizb/vizrequire"
	"oss.terrastruct.com/vizb/vizsvg"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.To(ctx, ms.Stderr)

	// These should be kept up-to-date with help.go
	watchFlag, err := ms.Opts.Bool("VIZB_WATCH", "watch", "w", false, "watch for changes to input and re-render the output.")
	if err != nil {
		return err
	}
	padFlag, err := ms.Opts.Float64("VIZB_PAD", "pad", "", vizsvg.DEFAULT_PADDING, "pixels padded around the rendered shapes")
	if err != nil {
		return err
	}
	prettyFlag, err := ms.Opts.Bool("VIZB_PRETTY", "pretty", "", false, "indent HTML output. Best effort: output that cannot be formatted is written as is.")
	if err != nil {
		return err
	}
	bundleFlag, err := ms.Opts.Bool("VIZB_BUNDLE", "bundle", "b", false, "inline the module loader and libraries into HTML output as data URIs so that it works offline")
	if err != nil {
		return err
	}
	bustCacheFlag, err := ms.Opts.Bool("", "bust-cache", "", false, "undefine previously loaded modules before loading them again. Useful when re-running notebook cells.")
	if err != nil {
		return err
	}
	loaderURLFlag := ms.Opts.String("VIZB_LOADER_URL", "loader-url", "", vizrequire.DefaultLoaderURL, "URL of the RequireJS loader injected into pages that have none")
	backgroundFlag := ms.Opts.String("VIZB_BACKGROUND", "background", "", "", "background color of the canvas")
	autoTextColorFlag, err := ms.Opts.Bool("VIZB_AUTO_TEXT_COLOR", "auto-text-color", "", false, "pick black or white label colors for legibility on each fill")
	if err != nil {
		return err
	}
	stdoutFormatFlag := ms.Opts.String("", "stdout-format", "", "html", "output format when writing to stdout (html, svg, json). Usage: vizb layout.json --stdout-format svg - > out.svg")
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = new(bool)
	}
	timeoutFlag, err := ms.Opts.Int64("VIZB_TIMEOUT", "timeout", "", 120, "the maximum number of seconds that vizb runs for before timing out and exiting. Bundling fetches remote libraries and may need more time on slow networks.")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}

	if len(ms.Opts.Flags.Args()) > 0 {
		switch ms.Opts.Flags.Arg(0) {
		case "validate":
			return validateCmd(ctx, ms)
		case "assets":
			return assetsCmd(ctx, ms)
		case "version":
			if len(ms.Opts.Flags.Args()) > 1 {
				return xmain.UsageErrorf("version subcommand accepts no arguments")
			}
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
	}

	var inputPath string
	var outputPath string

	if len(ms.Opts.Flags.Args()) == 0 {
		if *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	} else if len(ms.Opts.Flags.Args()) >= 3 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	inputPath = ms.Opts.Flags.Arg(0)
	if len(ms.Opts.Flags.Args()) >= 2 {
		outputPath = ms.Opts.Flags.Arg(1)
	} else if inputPath == "-" {
		outputPath = "-"
	} else {
		outputPath = renameExt(inputPath, ".html")
	}
	if inputPath != "-" {
		inputPath = ms.AbsPath(inputPath)
	}
	if outputPath != "-" {
		outputPath = ms.AbsPath(outputPath)
	}

	format, err := outputFormat(*stdoutFormatFlag, outputPath)
	if err != nil {
		return xmain.UsageErrorf("%v", err)
	}

	opts := renderOpts{
		format:        format,
		title:         title(inputPath),
		pad:           *padFlag,
		pretty:        *prettyFlag,
		bundle:        *bundleFlag,
		bustCache:     *bustCacheFlag,
		loaderURL:     *loaderURLFlag,
		background:    *backgroundFlag,
		autoTextColor: *autoTextColorFlag,
	}

	if *watchFlag {
		if inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
		}
		if outputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with writing output to stdout")
		}
		w, err := newWatcher(ctx, ms, watcherOpts{
			renderOpts: opts,
			inputPath:  inputPath,
			outputPath: outputPath,
		})
		if err != nil {
			return err
		}
		return w.run()
	}

	ctx, cancel := log.WithTimeout(ctx, time.Duration(*timeoutFlag)*time.Second)
	defer cancel()

	err = render(ctx, ms, opts, inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", ms.HumanPath(inputPath), err)
	}
	if outputPath != "-" {
		ms.Log.Success.Printf("successfully rendered %s to %s", ms.HumanPath(inputPath), ms.HumanPath(outputPath))
	}
	return nil
}

// newExt must include leading .
func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	}
	return strings.TrimSuffix(fp, ext) + newExt
}

func title(inputPath string) string {
	if inputPath == "-" {
		return "vizb"
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
