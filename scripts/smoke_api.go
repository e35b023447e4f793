package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Walks the main API against a running server:
//
//	SMOKE_EMAIL=me@example.com SMOKE_PASSWORD=secret go run ./scripts

func baseURL() string {
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:5000/api"
}

func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL()+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(title, method, url, token string, body interface{}) []byte {
	color.Yellow("\n%s", title)
	resp, raw, err := sendRequest(method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(raw)
	return raw
}

func main() {
	color.Cyan("🚀 Airdrop tracker API smoke test\n")

	raw := step("1. Login", http.MethodPost, "/auth/login", "", map[string]string{
		"email":    os.Getenv("SMOKE_EMAIL"),
		"password": os.Getenv("SMOKE_PASSWORD"),
	})
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &login); err != nil || login.Data.Token == "" {
		color.Red("No token in login response, stopping")
		os.Exit(1)
	}
	token := login.Data.Token

	raw = step("2. Create airdrop", http.MethodPost, "/airdrops", token, map[string]interface{}{
		"name":       "Smoke Test Drop",
		"blockchain": "Ethereum",
		"status":     "RESEARCH",
	})
	var created struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(raw, &created)

	step("3. Summary", http.MethodGet, "/airdrops/summary", token, nil)
	step("4. Chat history", http.MethodGet, "/chat/history", token, nil)

	if created.Data.Id != "" {
		step("5. Delete airdrop", http.MethodDelete, "/airdrops/"+created.Data.Id, token, nil)
	}

	color.Cyan("\nDone.")
}
