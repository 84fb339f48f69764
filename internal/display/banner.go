package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner; magenta when colored is true.
func PrintBanner(colored bool) {
	if colored {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `  ____      _     _ __  __           _
 / ___|_ __(_) __| |  \/  | __ _ ___| |_ ___ _ __
| |  _| '__| |/ _`+"`"+` | |\/| |/ _`+"`"+` / __| __/ _ \ '__|
| |_| | |  | | (_| | |  | | (_| \__ \ ||  __/ |
 \____|_|  |_|\__,_|_|  |_|\__,_|___/\__\___|_|
`)
	if colored {
		fmt.Fprintln(os.Stdout, "\033[0m")
	}
}
