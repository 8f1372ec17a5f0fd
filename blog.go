package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/wansing/blog/backend"
	"github.com/wansing/blog/core"
	"github.com/wansing/blog/util"
	"golang.org/x/crypto/ssh/terminal"
)

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var opts = &options{} // is in both FlagSets

	// default FlagSet

	opts.register(flag.CommandLine)
	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", lookupEnvOrString(envBase, ""), "strip off this `prefix` from every HTTP request and prepend it to every redirect")
	var listenAddr = flag.String("listen", lookupEnvOrString(envListen, "127.0.0.1:8080"), "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)
	opts.register(initFlags)
	var initAdmin = initFlags.Bool("admin", false, "give the user administrator permissions")
	var initUser = initFlags.String("user", "", "insert or update the user with this `login`")

	var active = flag.CommandLine
	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
		active = initFlags
	} else {
		flag.Parse()
	}

	if opts.config != "" {
		if err := applyIni(active, opts.config); err != nil {
			log.Printf("could not read config file: %v", err)
			return
		}
	}

	// database

	stores, err := openDatabase(opts.db)
	if err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	defer func() {
		log.Println("closing database")
		stores.close()
	}()

	var db = &core.CoreDB{
		CommentDB:  stores.comments,
		EntryDB:    stores.entries,
		UserDB:     stores.users,
		BcryptCost: opts.bcryptCost,
	}

	// init

	if initFlags.Parsed() {
		insertUser(db, *initUser, *initAdmin)
		return
	}

	// seed

	adminPassword, adminOK := os.LookupEnv(envAdminPassword)
	userPassword, userOK := os.LookupEnv(envUserPassword)
	if !adminOK || !userOK {
		log.Printf("%s and %s must be set", envAdminPassword, envUserPassword)
		return
	}
	if err := db.Seed("administrator", adminPassword, true); err != nil {
		log.Printf("error seeding administrator: %v", err)
		return
	}
	if err := db.Seed("user", userPassword, false); err != nil {
		log.Printf("error seeding user: %v", err)
		return
	}

	listen(db, stores.sessions, *listenAddr, util.NormalizePrefix(*base))
}

// insertUser prompts for a password and upserts the user. An empty password is replaced by a random one.
func insertUser(db *core.CoreDB, login string, administrator bool) {

	if login == "" {
		log.Println("missing -user")
		return
	}

	fmt.Printf("password for user %s (leave empty to generate one): ", login)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	var password string

	if len(pass1) == 0 {
		password, err = util.RandomString32()
		if err != nil {
			log.Printf("error generating password: %v", err)
			return
		}
		fmt.Printf("generated password: %s\n", password)
	} else {
		fmt.Printf("repeat password: ")
		pass2, err := terminal.ReadPassword(0)
		fmt.Println()
		if err != nil {
			log.Printf("error reading password: %v", err)
			return
		}
		if !bytes.Equal(pass1, pass2) {
			log.Printf("passwords don't match")
			return
		}
		password = string(pass1)
	}

	if err := db.Seed(login, password, administrator); err != nil {
		log.Printf("error saving user %s: %v", login, err)
	}
}

func listen(db *core.CoreDB, sessionStore scs.Store, addr string, base string) {

	var sessionManager = backend.NewSessionManager(sessionStore, base)

	var waitingHandlers sync.WaitGroup

	var router = backend.NewRouter(db, sessionManager, base)

	var mux = http.NewServeMux()
	util.HandlePrefix(
		mux,
		base,
		http.HandlerFunc(
			func(w http.ResponseWriter, req *http.Request) {
				waitingHandlers.Add(1)
				defer waitingHandlers.Done()
				router.ServeHTTP(w, req)
			},
		),
	)

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      sessionManager.LoadAndSave(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingHandlers.Wait()
}
