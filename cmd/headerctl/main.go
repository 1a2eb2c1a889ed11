// Command headerctl creates and inspects schema v1 encrypted file headers
// (pkg/header) from the command line: create a header, add a password
// keyslot, store or recover an encrypted object, and inspect a header's
// non-secret metadata.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/headerstore"
	"github.com/kestrelfs/iosvault/internal/primitives"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		printUsage(out)
		return 1
	}

	store := headerstore.New(fs.NewReal(), primitives.DefaultSuite())

	switch args[1] {
	case "create":
		return cmdCreate(store, args[2:], out, errOut)
	case "add-keyslot":
		return cmdAddKeyslot(store, args[2:], out, errOut)
	case "add-object":
		return cmdAddObject(store, args[2:], out, errOut)
	case "decrypt-object":
		return cmdDecryptObject(store, args[2:], out, errOut)
	case "inspect":
		return cmdInspect(store, args[2:], out, errOut)
	case "-h", "--help", "help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "headerctl: unknown command %q\n", args[1])
		printUsage(errOut)

		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: headerctl <command> [flags]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create --file PATH              create a new header with one password keyslot")
	fmt.Fprintln(w, "  add-keyslot --file PATH          unlock with an existing password, add another")
	fmt.Fprintln(w, "  add-object --file PATH --data F  unlock, store F's contents as an encrypted object")
	fmt.Fprintln(w, "  decrypt-object --file PATH --index N --out F")
	fmt.Fprintln(w, "  inspect --file PATH              print non-secret header metadata")
}

func newFlagSet(name string, errOut io.Writer) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(errOut)

	return flagSet
}

func fail(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "headerctl: "+strings.TrimSuffix(format, "\n")+"\n", args...)

	return 1
}
