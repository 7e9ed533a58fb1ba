// Command genkeys generates an RSA key pair for a user and writes it to
// <user>.pub and <user>.prv, or serves key generation over HTTP with -serve.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/hsiuhsiu/genkeys-go/internal/config"
	"github.com/hsiuhsiu/genkeys-go/internal/keyserver"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/keyfile"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/logging"
)

const usage = "Usage: genkeys [flags] <username>\n       genkeys -serve [flags]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("genkeys", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	bits := fs.Int("bits", 0, "modulus size in bits (default from config, 1024)")
	outDir := fs.String("out", "", "directory for the key files (default from config, .)")
	configFile := fs.String("config", "", "optional YAML config file")
	envFile := fs.String("env", ".env", "optional .env file")
	serve := fs.Bool("serve", false, "serve key generation over HTTP instead")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.NewLoader(*envFile, *configFile).Load()
	if err != nil {
		fmt.Fprintf(stderr, "genkeys: %v\n", err)
		return 1
	}
	if *bits != 0 {
		cfg.Bits = *bits
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "genkeys: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "genkeys: %v\n", err)
		return 1
	}
	logger.Debug(ctx, "starting", "version", rsakey.BuildVersion())

	gen := rsakey.NewGenerator(cfg.GeneratorConfig(logger))
	store := keyfile.Store{Dir: cfg.OutDir}

	if *serve {
		if fs.NArg() != 0 {
			fs.Usage()
			return 1
		}
		gin.SetMode(gin.ReleaseMode)
		srv := keyserver.New(gen, store, cfg.Bits, logger)
		if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
			fmt.Fprintf(stderr, "genkeys: %v\n", err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stdout, usage)
		return 1
	}
	user := fs.Arg(0)

	pubPath, prvPath, err := generate(ctx, gen, store, user, cfg.Bits)
	if err != nil {
		fmt.Fprintf(stderr, "genkeys: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Generated RSA keypair:")
	fmt.Fprintf(stdout, "  Public key:  %s\n", pubPath)
	fmt.Fprintf(stdout, "  Private key: %s\n", prvPath)
	return 0
}

func generate(ctx context.Context, gen *rsakey.Generator, store keyfile.Store, user string, bits int) (string, string, error) {
	// reject the name before spending time on primes
	if err := keyfile.ValidateName(user); err != nil {
		return "", "", err
	}
	pub, priv, err := gen.Generate(ctx, bits)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", "", errors.New("interrupted")
		}
		return "", "", err
	}
	defer rsakey.ZeroizeInt(priv.D)
	return store.Save(user, pub, priv)
}

func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	handler, err := logging.NewHandler(w, cfg.LogFormat, level)
	if err != nil {
		return nil, err
	}
	return logging.New(slog.New(handler)), nil
}
