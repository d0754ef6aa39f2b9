package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/contactbook/internal/logger"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/contacts/ -timeout=2m
func main() {
	url := flag.String("url", "http://localhost:8080/contacts/", "endpoint that must answer with 200 OK")
	interval := flag.Duration("interval", 5*time.Second, "time between two attempts")
	timeout := flag.Duration("timeout", 0, "give up after this time, 0 waits forever")
	flag.Parse()

	log := logger.NewWithWriter(os.Stdout, "info")
	client := &http.Client{Timeout: *interval}
	start := time.Now()
	for {
		res, err := client.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				log.Info().Str("url", *url).Dur("waited", time.Since(start)).Msg("service is available")
				return
			}
			log.Info().Int("status", res.StatusCode).Msg("service not ready")
		} else {
			log.Info().Err(err).Msg("service not reachable")
		}
		if *timeout > 0 && time.Since(start) > *timeout {
			log.Error().Dur("waited", time.Since(start)).Msg("giving up")
			os.Exit(1)
		}
		time.Sleep(*interval)
	}
}
