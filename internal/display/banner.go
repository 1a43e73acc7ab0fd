// Package display provides user-facing output: the startup banner and the
// --list-* info tables (§6 "Supplemented features").
//
// Grounded on the teacher's internal/display/banner.go (magenta ASCII art
// gated on whether colors are enabled).
package display

import (
	"fmt"
	"os"

	"github.com/nujievik/mux-media-sub000/internal/term"
)

// PrintBanner prints the mux-media ASCII art logo to stdout, styled in
// magenta when colors are enabled.
func PrintBanner() {
	art := ` _ __ ___  _   ___  __ _ __ ___   ___  __| (_) __ _
| '_ ` + "`" + ` _ \| | | \ \/ /___| '_ ` + "`" + ` _ \ / _ \/ _` + "`" + ` | |/ _` + "`" + ` |
| | | | | | |_| |>  <_____| | | | | |  __/ (_| | | (_| |
|_| |_| |_|\__,_/_/\_\    |_| |_| |_|\___|\__,_|_|\__,_|
`
	fmt.Fprint(os.Stdout, term.Magenta.Render(art))
}
