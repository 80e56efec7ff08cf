// Command smoke drives a running concierge through one chat turn, a direct
// plan and the history endpoints.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) send(method, path string, body interface{}) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}

func (c *client) step(title, method, path string, body interface{}) bool {
	color.Yellow("\n%s", title)
	status, raw, err := c.send(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		return false
	}
	if status >= 300 {
		color.Red("Status: %d", status)
	} else {
		color.Green("Status: %d", status)
	}
	prettyPrint(raw)
	return status < 300
}

func main() {
	baseURL := flag.String("url", "http://localhost:7005/api", "concierge API base URL")
	traveler := flag.String("traveler", "smoke-traveler", "traveler id")
	message := flag.String("message", "Plan a family trip to Miami from 2025-11-20 to 2025-11-22, we love beaches", "chat message")
	token := flag.String("token", "", "bearer token forwarded to the booking service")
	flag.Parse()

	c := &client{baseURL: *baseURL, token: *token, http: &http.Client{Timeout: 6 * time.Minute}}

	color.Cyan("Travel concierge smoke run against %s", *baseURL)

	ok := c.step("1. Health", http.MethodGet, "/health", nil)
	if !ok {
		os.Exit(1)
	}

	ok = c.step("2. Chat", http.MethodPost, "/chatbot", map[string]interface{}{
		"traveler_id": *traveler,
		"message":     *message,
	}) && ok

	ok = c.step("3. Direct plan", http.MethodPost, "/concierge", map[string]interface{}{
		"booking_context": map[string]interface{}{
			"location":   "Miami",
			"dates":      []string{"2025-11-20", "2025-11-22"},
			"party_type": "family",
		},
		"preferences": map[string]interface{}{
			"children":  2,
			"interests": []string{"beaches", "museums"},
		},
	}) && ok

	ok = c.step("4. History", http.MethodGet, "/chatbot/history/"+*traveler, nil) && ok
	ok = c.step("5. Clear history", http.MethodDelete, "/chatbot/history/"+*traveler, nil) && ok

	if !ok {
		color.Red("\nSmoke run finished with failures")
		os.Exit(1)
	}
	color.Green("\nSmoke run passed")
}
