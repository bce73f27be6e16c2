// Command ltpl scaffolds SvelteKit projects on the LTPL stack.
package main

import (
	"os"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
