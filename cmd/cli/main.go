// chatlens - chat export analytics
//
// chatlens parses a messaging app's plain-text chat export and reports who
// talks, when, about what and in what mood.
package main

import (
	"os"

	"github.com/ccollicutt/chatlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
