/*
Ceeifyd starts the ceeify playground server and begins listening for HTTP
requests.

Usage:

	ceeifyd [flags]

Once started, ceeifyd listens for HTTP requests and serves the compile-job
API under /api/v1. By default it listens on :8080 and stores job history in
./ceeifyd.db.

The flags are:

	-v, --version
		Print version info and exit.

	-c, --config FILE
		Load settings from the given ceeifyd.toml file. Flags given on the
		command line override the config file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in ADDRESS:PORT or :PORT format.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT bearer tokens. If not given,
		a random secret is generated and all issued tokens become invalid at
		shutdown.

	-k, --admin-key-hash HASH
		Bcrypt hash of the admin API key, overriding the config file.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"ceeify/internal/authtoken"
	"ceeify/internal/config"
	"ceeify/internal/httpapi"
	"ceeify/internal/store"
)

const versionString = "ceeifyd v0.1.0"

var (
	flagVersion   = pflag.BoolP("version", "v", false, "Print version info and exit")
	flagConfig    = pflag.StringP("config", "c", "", "Load settings from the given ceeifyd.toml file")
	flagListen    = pflag.StringP("listen", "l", "", "Listen on the given address")
	flagSecret    = pflag.StringP("secret", "s", "", "Use the given secret for signing JWT bearer tokens")
	flagAdminHash = pflag.StringP("admin-key-hash", "k", "", "Bcrypt hash of the admin API key")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println(versionString)
		return
	}

	cfg := config.DefaultCeeifyd()
	if *flagConfig != "" {
		loaded, err := config.LoadCeeifyd(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load config: %s\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if pflag.Lookup("listen").Changed {
		cfg.ListenAddr = *flagListen
	}
	if pflag.Lookup("admin-key-hash").Changed {
		cfg.AdminKeyHash = *flagAdminHash
	}

	var secret []byte
	if pflag.Lookup("secret").Changed && *flagSecret != "" {
		secret = []byte(*flagSecret)
	} else {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			fmt.Fprintf(os.Stderr, "could not generate token secret: %s\n", err)
			os.Exit(1)
		}
		log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	}

	if cfg.AdminKeyHash == "" {
		fmt.Fprintln(os.Stderr, "no admin key hash configured; set admin_key_hash in ceeifyd.toml or pass --admin-key-hash")
		os.Exit(1)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL could not open job store: %s", err)
	}

	iss := authtoken.New(secret, cfg.AdminKeyHash, time.Duration(cfg.TokenTTLSeconds)*time.Second)

	api := &httpapi.API{Store: st, Auth: iss, UnauthDelay: time.Second}

	log.Printf("INFO  starting %s on %s...", versionString, cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, api.NewRouter()); err != nil {
		log.Fatalf("FATAL server exited: %s", err)
	}
}
