package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"katwalk/cmd/cavptool/cmd"
	"katwalk/crypto/pqc/dilithium"
)

func init() {
	name := dilithium.Backend()
	switch name {
	case dilithium.BackendCircl, dilithium.BackendPQClean:
		// allowed backends
	default:
		panic("security: invalid PQC backend linked: " + name)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		code := cmd.ExitCode(err)
		if code == cmd.ExitUsage {
			fmt.Fprint(rootCmd.ErrOrStderr(), rootCmd.UsageString())
		}
		stop()
		os.Exit(code)
	}
}
