// Command fakeapi serves an in-memory copy of the store API for local
// development of the storefront.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"storefront/internal/fakeapi"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	store := flag.String("store", "gingene-test", "store path segment")
	seed := flag.Int("seed", 25, "number of generated products")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	srv := fakeapi.NewServer(*store)
	srv.Store.Seed(*seed)

	logger.Info("fake store API starting",
		"addr", *addr,
		"base_url", "http://localhost"+*addr+"/v2",
		"store", *store,
		"products", *seed,
	)
	s := &http.Server{Addr: *addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	if err := s.ListenAndServe(); err != nil {
		logger.Error("fake store API stopped", "error", err)
		os.Exit(1)
	}
}
