// Command seed populates a running server with demo content through its
// public and admin HTTP endpoints. Useful for local frontend work.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type seeder struct {
	baseURL string
	token   string
	client  *http.Client
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the running server")
	numPosts := flag.Int("posts", 6, "Number of demo posts to create")
	numSubs := flag.Int("subscribers", 4, "Number of demo subscribers to create")
	flag.Parse()

	s := &seeder{
		baseURL: *baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	if err := s.run(*numPosts, *numSubs); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeding completed")
}

func (s *seeder) run(numPosts, numSubs int) error {
	adminEmail := "admin@example.com"
	adminPassword := "seedpass123"

	// Registration may fail with 409 on re-runs, which is fine.
	_, _ = s.request(http.MethodPost, "/user/register", map[string]interface{}{
		"name":     "Seed Admin",
		"email":    adminEmail,
		"password": adminPassword,
		"isAdmin":  true,
	})

	loginBody, err := s.request(http.MethodPost, "/user/login", map[string]interface{}{
		"email":    adminEmail,
		"password": adminPassword,
	})
	if err != nil {
		return fmt.Errorf("admin login failed: %v", err)
	}

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(loginBody, &login); err != nil {
		return fmt.Errorf("failed to parse login response: %v", err)
	}
	if !login.Success {
		return fmt.Errorf("admin login rejected: %s", login.Error)
	}
	s.token = login.Token

	categories := []string{"Startup", "Technology", "Lifestyle"}
	for i := 0; i < numPosts; i++ {
		category := categories[i%len(categories)]
		_, err := s.request(http.MethodPost, "/post", map[string]interface{}{
			"title":       fmt.Sprintf("Demo post %d", i+1),
			"description": fmt.Sprintf("A short %s piece seeded for local development.", category),
			"content":     fmt.Sprintf("Full body of demo post %d. Category: %s.", i+1, category),
			"category":    category,
			"tags":        []string{"demo", category},
		})
		if err != nil {
			log.Printf("Failed to create post %d: %v", i+1, err)
			continue
		}
		log.Printf("Created post %d (%s)", i+1, category)

		// Pace requests so the actor mailbox is not flooded.
		time.Sleep(100 * time.Millisecond)
	}

	for i := 0; i < numSubs; i++ {
		email := fmt.Sprintf("reader_%d@example.com", i+1)
		if _, err := s.request(http.MethodPost, "/subscribe", map[string]interface{}{"email": email}); err != nil {
			log.Printf("Failed to subscribe %s: %v", email, err)
			continue
		}
		log.Printf("Subscribed %s", email)
	}

	return nil
}

func (s *seeder) request(method, path string, body interface{}) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
