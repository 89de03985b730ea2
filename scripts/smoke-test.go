//go:build ignore

// Smoke test against a running ksef-server:
//
//	go run scripts/smoke-test.go -api http://localhost:8080
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

func main() {
	api := flag.String("api", "http://localhost:8080", "ksef-server base URL")
	fetch := flag.Bool("fetch", false, "also start an incoming fetch and poll it to completion")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Minute}

	fmt.Println("=== KSeF middleware smoke test ===")
	mustOK(client, http.MethodGet, *api+"/health")
	fmt.Println("✓ health")

	body := mustOK(client, http.MethodGet, *api+"/api/v1/connection")
	fmt.Printf("✓ connection %s\n", body)

	body = mustOK(client, http.MethodGet, *api+"/api/v1/incoming/sync-state")
	fmt.Printf("✓ sync state %s\n", body)

	body = mustOK(client, http.MethodGet, *api+"/api/v1/submissions/statistics")
	fmt.Printf("✓ statistics %s\n", body)

	if !*fetch {
		return
	}

	body = mustOK(client, http.MethodPost, *api+"/api/v1/incoming/fetch")
	fmt.Printf("→ init %s\n", body)
	for i := 0; i < 60; i++ {
		time.Sleep(10 * time.Second)
		body = mustOK(client, http.MethodGet, *api+"/api/v1/incoming/fetch")
		var res struct {
			Outcome string `json:"outcome"`
		}
		_ = json.Unmarshal(body, &res)
		fmt.Printf("  poll %d: %s\n", i+1, res.Outcome)
		if res.Outcome != "PROCESSING" {
			fmt.Printf("✓ fetch finished %s\n", body)
			return
		}
	}
	fmt.Println("✗ fetch still processing after 10 minutes")
	os.Exit(1)
}

func mustOK(client *http.Client, method, url string) []byte {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		fail(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		fail(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fail(fmt.Errorf("%s %s: %d %s", method, url, resp.StatusCode, body))
	}
	return body
}

func fail(err error) {
	fmt.Printf("✗ %v\n", err)
	os.Exit(1)
}
