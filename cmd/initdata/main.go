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

	"github.com/brianvoe/gofakeit/v6"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	baseURL = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	email   = flag.String("email", env("EMAIL", "demo@example.com"), "User e-mail")
	pass    = flag.String("pass", env("PASSWORD", "Password123"), "User password")
	nNotes  = flag.Int("notes", envInt("NOTES_COUNT", 200), "How many notes to create")
	nTasks  = flag.Int("tasks", envInt("TASKS_COUNT", 50), "How many tasks to create")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		i, err := fmt.Sscan(v, &i)
		if err != nil {
			return def
		}
		if i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// HTTP helpers ---------------------------------------------------------------
func postJSON(path string, body any, hdr map[string]string) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}

func must(body io.ReadCloser) []byte {
	defer body.Close()
	data, _ := io.ReadAll(body)
	return data
}

var priorities = []string{"Low", "Medium", "High"}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Init account %s (notes=%d tasks=%d) on %s\n", *email, *nNotes, *nTasks, *baseURL)

	token, err := ensureUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	if err := createNotes(token, *nNotes); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	if err := createTasks(token, *nTasks); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("✔ done")
}

// envelope matches the server's response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ----------------------------------------------------------------------------
// Step 1 – make sure the user exists -----------------------------------------
func ensureUser() (string, error) {
	payload := map[string]string{"email": *email, "password": *pass}

	// Try sign-up first …
	if resp, err := postJSON("/api/auth/signup", payload, nil); err == nil && resp.StatusCode < 300 {
		token, err := tokenFrom(must(resp.Body))
		if err != nil {
			return "", err
		}
		fmt.Println("• signed-up new user")
		return token, nil
	}

	// … otherwise fall back to sign-in.
	resp, err := postJSON("/api/auth/signin", payload, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign-in failed (%d): %s", resp.StatusCode, must(resp.Body))
	}
	token, err := tokenFrom(must(resp.Body))
	if err != nil {
		return "", err
	}
	fmt.Println("• signed-in existing user")
	return token, nil
}

func tokenFrom(body []byte) (string, error) {
	var e envelope
	if err := json.Unmarshal(body, &e); err != nil {
		return "", err
	}
	var r struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(e.Data, &r); err != nil {
		return "", err
	}
	if r.Token == "" {
		return "", fmt.Errorf("no token in response: %s", body)
	}
	return r.Token, nil
}

// ----------------------------------------------------------------------------
// Step 2 – create notes ------------------------------------------------------
func createNotes(token string, total int) error {
	h := map[string]string{"Authorization": "Bearer " + token}

	for i := 1; i <= total; i++ {
		// suffix keeps titles unique per owner
		note := map[string]any{
			"title":    fmt.Sprintf("%s #%d", gofakeit.Sentence(3), i),
			"content":  gofakeit.Paragraph(1, 3, 40, " "),
			"color":    gofakeit.HexColor(),
			"tags":     []string{gofakeit.Word(), gofakeit.Word()},
			"isPinned": i%10 == 0,
		}

		resp, err := postJSON("/api/notes", note, h)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create note %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
		}

		if i%50 == 0 || i == total {
			fmt.Printf("  … notes %d/%d\n", i, total)
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Step 3 – create tasks ------------------------------------------------------
func createTasks(token string, total int) error {
	h := map[string]string{"Authorization": "Bearer " + token}

	for i := 1; i <= total; i++ {
		subs := make([]map[string]any, 0, 3)
		for j := 0; j < 1+i%3; j++ {
			subs = append(subs, map[string]any{
				"title":  gofakeit.Sentence(2),
				"isDone": false,
			})
		}

		task := map[string]any{
			"title":    fmt.Sprintf("%s #%d", gofakeit.Sentence(3), i),
			"content":  gofakeit.Sentence(8),
			"priority": priorities[i%len(priorities)],
			"dueDate":  time.Now().AddDate(0, 0, i%30).Format(time.RFC3339),
			"subTasks": subs,
		}

		resp, err := postJSON("/api/tasks", task, h)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create task %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
		}

		if i%25 == 0 || i == total {
			fmt.Printf("  … tasks %d/%d\n", i, total)
		}
	}
	return nil
}
