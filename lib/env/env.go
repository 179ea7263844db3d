package env

import (
	"os"
	"strconv"
)

func Test() bool {
	return os.Getenv("TEST_MODE") != ""
}

func Debug() bool {
	return os.Getenv("DEBUG") != ""
}

// LoaderURL overrides the CDN location of the module loader injected by the
// generated shim.
func LoaderURL() string {
	return os.Getenv("VIZB_LOADER_URL")
}

func Timeout() (int, bool) {
	if s := os.Getenv("VIZB_TIMEOUT"); s != "" {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return int(i), true
		}
	}
	return -1, false
}
