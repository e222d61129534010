package rooms

import "os"

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// SetDebug toggles logging of every failed operation
func SetDebug(on bool) {
	debug = on
}
