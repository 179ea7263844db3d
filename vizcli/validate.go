package vizcli

import (
	"context"
	"fmt"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/vizb/vizassets"
	"oss.terrastruct.com/vizb/vizdoc"
	"oss.terrastruct.com/vizb/vizshape"
)

func validateCmd(ctx context.Context, ms *xmain.State) error {
	if len(ms.Opts.Flags.Args()) < 2 {
		return xmain.UsageErrorf("input argument required")
	}
	if len(ms.Opts.Flags.Args()) > 2 {
		return xmain.UsageErrorf("validate accepts exactly one input")
	}

	inputPath := ms.Opts.Flags.Arg(1)
	if inputPath != "-" {
		inputPath = ms.AbsPath(inputPath)
	}
	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}
	doc, err := vizdoc.ParseBytes(inputPath, input)
	if err != nil {
		return err
	}
	shape, err := doc.Shape()
	if err != nil {
		return err
	}
	err = vizshape.Validate(shape)
	if err != nil {
		return err
	}

	if inputPath == "-" {
		ms.Log.Success.Printf("Successfully validated input from stdin")
	} else {
		ms.Log.Success.Printf("Successfully validated %s", ms.HumanPath(inputPath))
	}
	return nil
}

func assetsCmd(ctx context.Context, ms *xmain.State) error {
	if len(ms.Opts.Flags.Args()) > 1 {
		return xmain.UsageErrorf("assets subcommand accepts no arguments")
	}
	names, err := vizassets.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(ms.Stdout, name)
	}
	return nil
}
