package theme

import (
	"fmt"
)

// Banner returns the CLI banner.
func Banner() string {
	const blue = "\033[34m"
	const cyan = "\033[36m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		"      " + blue + "CHIRP" + reset + "\n" +
		cyan + "   (o>   a terminal client for your micro-blog\n" + reset +
		cyan + "   //\\\n" + reset +
		yellow + "   V_/   ──────────────────────────────────\n" + reset
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
