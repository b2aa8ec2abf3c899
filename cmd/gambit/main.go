// Command gambit is the compiler's command-line front end: it loads one
// source file, runs it through internal/compiler, prints diagnostics, and
// optionally dumps the resolved program as JSON.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apmjson"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/compiler"
)

var rootCmd = &cobra.Command{
	Use:   "gambit [flags] source_file",
	Short: "A compiler front end for the Gambit language.",
	Long:  "Lexes, parses, resolves and checks a single Gambit source file, reporting diagnostics.",
	Args:  cobra.ExactArgs(1),
	Run:   runCompile,
}

func init() {
	rootCmd.Flags().Bool("dump", false, "write the resolved program as JSON to stdout")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}

func runCompile(cmd *cobra.Command, args []string) {
	if getFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	path := args[0]

	log.Debugf("compiling %s", path)

	program, sink, err := compiler.Compile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if !sink.Empty() {
		sink.Format(os.Stderr)
		fmt.Fprintln(os.Stderr)
	}

	if getFlag(cmd, "dump") {
		if encErr := apmjson.Encode(os.Stdout, program); encErr != nil {
			fmt.Fprintln(os.Stderr, encErr)
			os.Exit(2)
		}
	}

	if !sink.Empty() {
		os.Exit(1)
	}
}

// getFlag is panic-free flag access that exits rather than surfacing a
// cobra plumbing error to the user.
func getFlag(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
