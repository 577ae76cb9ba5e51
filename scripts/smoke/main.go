// Command smoke walks a running timetable-api instance through a full
// session lifecycle: create a session, upload a catalog, select sections,
// generate combinations, and export the results. It exits nonzero on the
// first failed step, which makes it usable as a post-deploy check.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

const sampleCatalog = `Course Code, Section, Title, Day, Start, End, Room, Instructor / Sponsor
CS 101,L1,Intro to Computing,MWF,9:00 AM,9:50 AM,SCI 204,Dr. Reyes
CS 101,L2,Intro to Computing,MWF,11:00 AM,11:50 AM,SCI 204,Dr. Reyes
CS 101L,T1,Computing Lab,T,1:00 PM,3:00 PM,LAB 1,Dr. Reyes
CS 101L,T2,Computing Lab,Th,1:00 PM,3:00 PM,LAB 1,Dr. Reyes
HIST 110,L1,World History,TTh,9:00 AM,10:15 AM,HUM 12,Dr. Cole
`

type step struct {
	name     string
	duration time.Duration
	err      error
}

func main() {
	var (
		base    string
		prefix  string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	runner := &runner{client: client, base: strings.TrimRight(base, "/") + prefix}

	sessionID := runner.createSession()
	runner.uploadCatalog(sessionID)
	runner.selectSections(sessionID, "CS 101", []string{"L1", "L2"})
	runner.selectSections(sessionID, "HIST 110", []string{"L1"})
	runner.generate(sessionID)
	runner.exportCSV(sessionID)
	runner.deleteSession(sessionID)

	failed := 0
	for _, s := range runner.steps {
		status := "ok"
		if s.err != nil {
			status = s.err.Error()
			failed++
		}
		fmt.Printf("%-24s %-10s %s\n", s.name, s.duration.Round(time.Millisecond), status)
	}
	if failed > 0 {
		fmt.Printf("%d of %d steps failed\n", failed, len(runner.steps))
		os.Exit(1)
	}
	fmt.Printf("all %d steps passed\n", len(runner.steps))
}

type runner struct {
	client *http.Client
	base   string
	steps  []step
}

func (r *runner) record(name string, start time.Time, err error) {
	r.steps = append(r.steps, step{name: name, duration: time.Since(start), err: err})
}

func (r *runner) createSession() string {
	start := time.Now()
	body, err := r.do(http.MethodPost, "/sessions", "", nil, http.StatusCreated)
	if err != nil {
		r.record("create session", start, err)
		log.Fatalf("create session: %v", err)
	}

	var payload struct {
		Data struct {
			SessionID string `json:"sessionId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Data.SessionID == "" {
		r.record("create session", start, fmt.Errorf("missing session_id in response"))
		log.Fatalf("create session: unparseable response %s", body)
	}
	r.record("create session", start, nil)
	return payload.Data.SessionID
}

func (r *runner) uploadCatalog(sessionID string) {
	start := time.Now()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", "catalog.csv")
	if err == nil {
		_, err = io.WriteString(part, sampleCatalog)
	}
	if err == nil {
		err = writer.Close()
	}
	if err != nil {
		r.record("upload catalog", start, err)
		return
	}

	_, err = r.do(http.MethodPost, "/sessions/"+sessionID+"/catalog", writer.FormDataContentType(), buf, http.StatusOK)
	r.record("upload catalog", start, err)
}

func (r *runner) selectSections(sessionID, course string, sections []string) {
	start := time.Now()
	payload, _ := json.Marshal(map[string][]string{"sectionIds": sections})
	path := "/sessions/" + sessionID + "/selections/" + strings.ReplaceAll(course, " ", "%20")
	_, err := r.do(http.MethodPut, path, "application/json", bytes.NewReader(payload), http.StatusOK)
	r.record("select "+course, start, err)
}

func (r *runner) generate(sessionID string) {
	start := time.Now()
	body, err := r.do(http.MethodPost, "/sessions/"+sessionID+"/generate", "", nil, http.StatusOK)
	if err != nil {
		r.record("generate", start, err)
		return
	}

	var payload struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Data.Count == 0 {
		err = fmt.Errorf("expected at least one combination")
	}
	r.record("generate", start, err)
}

func (r *runner) exportCSV(sessionID string) {
	start := time.Now()
	body, err := r.do(http.MethodGet, "/sessions/"+sessionID+"/export/selections.csv", "", nil, http.StatusOK)
	if err == nil && !bytes.HasPrefix(body, []byte("Course Code")) {
		err = fmt.Errorf("unexpected CSV header")
	}
	r.record("export csv", start, err)
}

func (r *runner) deleteSession(sessionID string) {
	start := time.Now()
	_, err := r.do(http.MethodDelete, "/sessions/"+sessionID, "", nil, http.StatusNoContent)
	r.record("delete session", start, err)
}

func (r *runner) do(method, path, contentType string, body io.Reader, wantStatus int) ([]byte, error) {
	req, err := http.NewRequest(method, r.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return data, fmt.Errorf("%s %s: got %d, want %d", method, path, resp.StatusCode, wantStatus)
	}
	return data, nil
}
