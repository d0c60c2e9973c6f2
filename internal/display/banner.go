package display

import (
	"fmt"
	"io"

	"github.com/backmassage/unityrip/internal/term"
)

const banner = ` _   _       _ _         ____  _
| | | |_ __ (_) |_ _   _|  _ \(_)_ __
| | | | '_ \| | __| | | | |_) | | '_ \
| |_| | | | | | |_| |_| |  _ <| | |_) |
 \___/|_| |_|_|\__|\__, |_| \_\_| .__/
                   |___/        |_|
`

// PrintBanner prints the ASCII art banner to w in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Magenta.Sprint(banner))
}
