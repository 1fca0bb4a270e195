// ABOUTME: Help display for the basin CLI with grouped flags and examples.
// ABOUTME: Provides printHelp for usage output shared by -help and the bare invocation.
package main

import (
	"fmt"
	"io"
)

const basinASCII = `
      000     001     010     011
        \      |       |      /
         v     v       v     v
      100 ---> 110 ---> 111 <--.
                         |     |
                         '-----'
`

// printHelp writes a formatted help message to w, including usage
// patterns, grouped flags, and examples.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, basinASCII)
	fmt.Fprintf(w, "basin %s — Boolean network attractor analyzer\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  basin <network.yaml>                Analyze and print the attractor report")
	fmt.Fprintln(w, "  basin -validate <network.yaml>      Check the document without analyzing")
	fmt.Fprintln(w, "  basin -export dot <network.yaml>    Write an export to stdout")
	fmt.Fprintln(w, "  basin -tui <network.yaml>           Interactive stepwise simulator")
	fmt.Fprintln(w, "  basin -server [-port 8323]          Start the HTTP management API")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Analysis Flags:")
	fmt.Fprintln(w, "  -state-cap <n>        Maximum start states to sweep (0 = default)")
	fmt.Fprintln(w, "  -step-cap <n>         Maximum steps per trajectory (0 = default)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Export Flags:")
	fmt.Fprintln(w, "  -export <format>      dot (wiring diagram), stategraph, or yaml")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Simulator Flags:")
	fmt.Fprintln(w, "  -tui                  Run the interactive terminal simulator")
	fmt.Fprintln(w, "  -start <state>        Initial state as an integer (default: 0)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -server               Start HTTP server mode")
	fmt.Fprintln(w, "  -port <port>          Server port (default: 8323)")
	fmt.Fprintln(w, "  -data-dir <dir>       Network database directory (default: $XDG_DATA_HOME/basin)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -validate             Validate the network without analyzing")
	fmt.Fprintln(w, "  -verbose              Progress output on stderr")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  basin examples/toggle.yaml")
	fmt.Fprintln(w, "  basin -state-cap 4096 big_network.yaml")
	fmt.Fprintln(w, "  basin -export stategraph toggle.yaml | dot -Tsvg > states.svg")
	fmt.Fprintln(w, "  basin -tui -start 5 toggle.yaml")
	fmt.Fprintln(w, "  basin -server -port 8080")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/statemap-research/basin")
}
