package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

var boolFlags = []string{"-o"}

var knownFlags = []string{"-a", "-h", "-d", "-r", "-t", "-k", "-f", "-u", "-p", "-b", "-g", "-e", "-q", "-w", "-l", "-o"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-h string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-t int      session TTL, hours
//	-k string   blob backend: local, s3, minio
//	-f string   blob root folder / key prefix
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-q string   thumbnail queue name
//	-w int      worker concurrency
//	-l float    worker rate, jobs per second (0 = unlimited)
//	-o bool     enforce parent folder ownership on create (-o, -o=true or -o true)
//
// os.Args is filtered through flagx.FilterArgs first so subcommand names and
// the config-file flag do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags, boolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "h", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session TTL (in hours)")

	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend: local, s3, minio")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "blob root folder")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.QueueName, "q", config.QueueName, "thumbnail queue name")
	fs.IntVar(&config.WorkerConcurrency, "w", config.WorkerConcurrency, "worker concurrency")
	fs.Float64Var(&config.WorkerRate, "l", config.WorkerRate, "worker jobs per second, 0 = unlimited")
	fs.BoolVar(&config.EnforceParentOwnership, "o", config.EnforceParentOwnership, "enforce parent folder ownership")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t replaces a sub-hour TTL coming from the file
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
		}
	})
}
