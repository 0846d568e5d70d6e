package main

import (
	"fmt"
	. "github.com/ZenLiuCN/latebind"
	"github.com/ZenLiuCN/latebind/pool"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"log"
	"os"
	"strconv"
)

func main() {
	app := cli.NewApp()
	app.Usage = "late binding probe"
	app.Name = "Probe"
	app.Description = "resolve system modules and entry points the way latebind thunks do"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, EnvVars: []string{"LATEBIND_DEBUG"}},
		&cli.BoolFlag{Name: "dump", Usage: "dump resolved bindings"},
		&cli.Uint64Flag{Name: "secret", EnvVars: []string{"LATEBIND_SECRET"}, Usage: "fixed pointer secret instead of a random one"},
	}
	app.Args = true
	app.Commands = []*cli.Command{
		{Name: "resolve",
			Action: resolve,
			Usage:  "resolve symbols of one module: resolve <module> <symbol>...",
			Args:   true,
		},
		{Name: "table",
			Action: table,
			Usage:  "resolve every symbol of YAML table files",
			Args:   true,
		},
		{Name: "call",
			Action: call,
			Usage:  "call an entry point with integer arguments: call <module> <symbol> [arg]...",
			Flags: []cli.Flag{
				&cli.Uint64Flag{Name: "fallback", Aliases: []string{"f"}, Usage: "value returned when the symbol is absent"},
			},
			Args: true,
		},
		{Name: "encode",
			Action: encode,
			Usage:  "show the stored form of addresses: encode <addr>...",
			Args:   true,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func registry(ctx *cli.Context) (r *Registry, err error) {
	var opts []Option
	if ctx.Bool("debug") {
		var l *zap.Logger
		if l, err = zap.NewDevelopment(); err != nil {
			return
		}
		opts = append(opts, WithLogger(l))
	}
	if ctx.IsSet("secret") {
		opts = append(opts, WithSecret(FixedSecret(ctx.Uint64("secret"))))
	}
	return NewRegistry(opts...)
}

func dump(ctx *cli.Context, v ...any) {
	if ctx.Bool("dump") {
		sp := spew.NewDefaultConfig()
		sp.MaxDepth = 4
		sp.Dump(v...)
	}
}

func resolve(ctx *cli.Context) (err error) {
	a := ctx.Args().Slice()
	if len(a) < 2 {
		return fmt.Errorf("missing module or symbols")
	}
	var r *Registry
	if r, err = registry(ctx); err != nil {
		return
	}
	m := r.Module(a[0])
	h, ok := m.Handle()
	log.Printf("%s: %s handle=%#x", m.Name(), m.State(), h)
	if !ok {
		return
	}
	for _, s := range a[1:] {
		sym := r.Symbol(s, a[0])
		addr, _ := sym.Resolve()
		log.Printf("\t%s: %s addr=%#x", sym.Name(), sym.State(), addr)
		dump(ctx, sym)
	}
	return
}

func table(ctx *cli.Context) (err error) {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("missing table files")
	}
	var r *Registry
	if r, err = registry(ctx); err != nil {
		return
	}
	p := pool.NewPool(r)
	for _, f := range ctx.Args().Slice() {
		if err = p.LoadFile(f); err != nil {
			return
		}
	}
	for n, v := range p.Probe() {
		log.Printf("%s\n%s", n, v.String())
	}
	dump(ctx, r.Exports())
	return
}

func call(ctx *cli.Context) (err error) {
	a := ctx.Args().Slice()
	if len(a) < 2 {
		return fmt.Errorf("missing module or symbol")
	}
	args := make([]uintptr, 0, len(a)-2)
	for _, s := range a[2:] {
		var n int64
		if n, err = strconv.ParseInt(s, 0, 64); err != nil {
			return fmt.Errorf("argument %q: %w", s, err)
		}
		args = append(args, uintptr(n))
	}
	var r *Registry
	if r, err = registry(ctx); err != nil {
		return
	}
	t := r.NewThunk(Descriptor{Name: a[1], Modules: []string{a[0]}, Fallback: uintptr(ctx.Uint64("fallback"))})
	v := t.Call(args...)
	log.Printf("%s(%v) = %d (%#x) %s", a[1], args, int64(v), v, t.Symbol().State())
	return
}

func encode(ctx *cli.Context) (err error) {
	var r *Registry
	if r, err = registry(ctx); err != nil {
		return
	}
	c := r.Codec()
	for _, s := range ctx.Args().Slice() {
		var n uint64
		if n, err = strconv.ParseUint(s, 0, 64); err != nil {
			return fmt.Errorf("address %q: %w", s, err)
		}
		e := c.Encode(uintptr(n))
		log.Printf("%#x => %#x => %#x", n, e, c.Decode(e))
	}
	return
}
