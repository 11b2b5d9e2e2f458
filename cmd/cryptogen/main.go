// Command cryptogen generates CAM crypto driver sources with FMPP and distributes them
// into the dsPIC33A application projects.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/cryptogen/cmd/cryptogen/commands"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// exitSignal carries a kong-requested exit (--help, --version) out of Parse.
type exitSignal int

// run parses args and executes the selected command, returning the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	cli := &commands.CLI{}
	globals := &commands.Globals{Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(cli,
		kong.Name("cryptogen"),
		kong.Description("Generate CAM crypto driver sources and distribute them to application projects."),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.Bind(globals, cli),
		kong.Exit(func(c int) { panic(exitSignal(c)) }),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return errors.ExitFailure
	}

	defer func() {
		if r := recover(); r != nil {
			if c, ok := r.(exitSignal); ok {
				code = int(c)
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		var perr *kong.ParseError
		if stderrors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		return errors.ExitArgument
	}
	kctx.BindTo(ctx, (*context.Context)(nil))

	code = errors.ExitOK
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).
		WithOutput(stderr).
		WithExit(func(c int) { code = c })
	adapter.HandleError(kctx.Run())
	return code
}
