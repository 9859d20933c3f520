// Command scodemo runs the deterministic interleaving scenario from the
// sco test suite (scenario 1: coroutines A, B and D writing the letters
// A to H in a fixed order) against stdout, optionally applying a JSON config file
// passed as the first argument.
package main

import (
	"fmt"
	"os"

	"github.com/tidwall/sco"
)

func newStack() []byte {
	return make([]byte, sco.MinStackSize)
}

func main() {
	if len(os.Args) > 1 {
		cfg, err := sco.LoadConfigFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "scodemo: loading config:", err)
			os.Exit(1)
		}
		cfg.Apply()
	}

	var out []byte
	write := func(b byte) { out = append(out, b) }

	sco.Start(sco.Descriptor{
		Stack:     newStack(),
		StackSize: sco.MinStackSize,
		Entry: func(any) {
			write('A')
			sco.Start(sco.Descriptor{
				Stack:     newStack(),
				StackSize: sco.MinStackSize,
				Entry: func(any) {
					write('B')
					sco.Yield()
					write('D')
				},
			})
			write('C')
			sco.Start(sco.Descriptor{
				Stack:     newStack(),
				StackSize: sco.MinStackSize,
				Entry: func(any) {
					write('E')
					sco.Yield()
					write('G')
				},
			})
			write('F')
			sco.Yield()
			write('H')
		},
	})

	fmt.Println(string(out))
}
