// recordgen reads table definitions from a MySQL database or a YAML snapshot
// and generates the dbschema, dbmodel, distrib and controller packages.
//
//	recordgen generate localhost root secret shop --package example.com/shop/generated
//	recordgen snapshot localhost root secret shop --file schema.yaml
//	recordgen watch --snapshot-in schema.yaml --package example.com/shop/generated
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
