package main

import (
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/vizb/vizcli"
)

func main() {
	xmain.Main(vizcli.Run)
}
