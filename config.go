package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wansing/blog/auth"
	"github.com/wansing/blog/util"
)

const (
	envAdminPassword = "BLOG_ADMIN_PASSWORD"
	envBase          = "BLOG_BASE"
	envBcryptCost    = "BLOG_BCRYPT_COST"
	envConfig        = "BLOG_CONFIG"
	envDatabase      = "BLOG_DATABASE_URL"
	envListen        = "BLOG_SERVER_ADDRESS"
	envUserPassword  = "BLOG_USER_PASSWORD"
)

// MySQL: collation should be utf8mb4_unicode_ci
const defaultDatabase = "sqlite3:blog.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&_foreign_keys=1&cache=shared"

// flagEnv maps flag names to the environment variables which override their defaults.
var flagEnv = map[string]string{
	"base":        envBase,
	"bcrypt-cost": envBcryptCost,
	"config":      envConfig,
	"db":          envDatabase,
	"listen":      envListen,
}

// options are shared by the default FlagSet and the init FlagSet.
type options struct {
	bcryptCost int
	config     string
	db         string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.IntVar(&o.bcryptCost, "bcrypt-cost", lookupEnvOrInt(envBcryptCost, auth.DefaultCost), "bcrypt `cost` of new passwords")
	fs.StringVar(&o.config, "config", lookupEnvOrString(envConfig, ""), "read flag defaults from this ini `file`")
	fs.StringVar(&o.db, "db", lookupEnvOrString(envDatabase, defaultDatabase), "sql database url (see github.com/xo/dburl) or json:<dir>")
}

func lookupEnvOrString(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func lookupEnvOrInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		v, err := strconv.Atoi(val)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lookupEnvOrInt[%s]: %v\n", key, err)
			return defaultVal
		}
		return v
	}
	return defaultVal
}

// applyIni sets the flags which have been given neither on the command line nor in the environment.
func applyIni(fs *flag.FlagSet, path string) error {

	values, err := util.Ini(path)
	if err != nil {
		return err
	}

	var given = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		given[f.Name] = true
	})

	for name, value := range values {
		if name == "config" || given[name] {
			continue
		}
		if env, ok := flagEnv[name]; ok {
			if _, ok := os.LookupEnv(env); ok {
				continue
			}
		}
		if fs.Lookup(name) == nil {
			log.Printf("ignoring unknown config key %s", name)
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("config key %s: %w", name, err)
		}
	}

	return nil
}
