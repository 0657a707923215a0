// Package main provides a standalone probe for container health checks. It
// queries the operations server and exits non-zero when the service is not
// in the expected state.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

type probeConfig struct {
	URL        string
	Timeout    time.Duration
	Verbose    bool
	Format     string
	RetryCount int
	RetryDelay time.Duration
}

func main() {
	os.Exit(run(parseFlags(), os.Stdout))
}

func parseFlags() probeConfig {
	cfg := probeConfig{}

	flag.StringVar(&cfg.URL, "url", defaultURL(), "Probe URL (e.g. http://localhost:9090/ready)")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "Request timeout")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	flag.StringVar(&cfg.Format, "format", "text", "Output format: text, json")
	flag.IntVar(&cfg.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&cfg.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.Parse()

	return cfg
}

func defaultURL() string {
	if url := os.Getenv("HEALTH_CHECK_URL"); url != "" {
		return url
	}
	return "http://localhost:9090/ready"
}

func run(cfg probeConfig, out io.Writer) int {
	client := &http.Client{Timeout: cfg.Timeout}

	var lastErr error
	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if attempt > 0 {
			if cfg.Verbose {
				fmt.Fprintf(out, "Retrying in %v (attempt %d/%d)\n", cfg.RetryDelay, attempt, cfg.RetryCount)
			}
			time.Sleep(cfg.RetryDelay)
		}

		code, body, err := probe(client, cfg.URL)
		if err != nil {
			lastErr = err
			if cfg.Verbose {
				fmt.Fprintf(out, "Request failed: %v\n", err)
			}
			continue
		}
		if code >= http.StatusInternalServerError && attempt < cfg.RetryCount {
			lastErr = fmt.Errorf("status %d", code)
			continue
		}
		return report(out, cfg.Format, code, body)
	}

	fmt.Fprintf(out, "Health check failed after %d attempts: %v\n", cfg.RetryCount+1, lastErr)
	return exitCodeError
}

func probe(client *http.Client, url string) (int, map[string]interface{}, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func report(out io.Writer, format string, code int, body map[string]interface{}) int {
	exit := exitCodeSuccess
	if code != http.StatusOK {
		exit = exitCodeFailure
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(body); err != nil {
			return exitCodeError
		}
		return exit
	}

	fmt.Fprintf(out, "status=%v http=%d\n", body["status"], code)
	if checks, ok := body["checks"].([]interface{}); ok {
		for _, c := range checks {
			if m, ok := c.(map[string]interface{}); ok {
				fmt.Fprintf(out, "  %v: %v %v\n", m["name"], m["status"], m["message"])
			}
		}
	}
	return exit
}
