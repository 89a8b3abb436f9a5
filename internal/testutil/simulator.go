package testutil

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/job"
)

// Model selects the classical dynamics the fake simulator applies.
type Model int

const (
	// ModelFermion tracks one occupation number per wire.
	ModelFermion Model = iota
	// ModelQudit tracks one level per wire.
	ModelQudit
)

// Endpoint names the three service endpoints.
type Endpoint string

const (
	EndpointSubmit Endpoint = "post_job"
	EndpointStatus Endpoint = "get_job_status"
	EndpointResult Endpoint = "get_job_result"
)

// Request is one recorded call to the fake simulator.
type Request struct {
	Method   string
	Endpoint Endpoint
	JSON     string
	Username string
	Password string
}

type fakeJob struct {
	statuses []string
	detail   string
	memory   []string
}

// FakeSimulator is an httptest server speaking the remote job protocol.
//
// Submitted payloads are run through deterministic dynamics: with the
// fermion model "load" occupies a wire and "hop" at a stored angle of π/2
// swaps wires 0↔2 and 1↔3 of its wire list; with the qudit model "load N"
// prepares level 0 and "rlx" at π maps level l to N - l. Every shot of a job
// reports the same record.
type FakeSimulator struct {
	t      testing.TB
	model  Model
	server *httptest.Server

	mu          sync.Mutex
	username    string
	password    string
	pending     []string
	jobError    string
	submitCode  int
	submitBody  string
	statusBody  string
	resultBody  string
	memory      []string
	nextID      int
	jobs        map[string]*fakeJob
	requests    []Request
	submissions []job.Payload
}

// FakeOption configures a FakeSimulator.
type FakeOption func(*FakeSimulator)

// WithCredentials makes the fake reject requests with other credentials.
func WithCredentials(username, password string) FakeOption {
	return func(f *FakeSimulator) {
		f.username = username
		f.password = password
	}
}

// WithPendingStatuses sets the statuses reported before DONE for every job.
func WithPendingStatuses(statuses ...string) FakeOption {
	return func(f *FakeSimulator) { f.pending = statuses }
}

// WithJobError makes every job end in ERROR with the given detail.
func WithJobError(detail string) FakeOption {
	return func(f *FakeSimulator) { f.jobError = detail }
}

// WithSubmitResponse replaces the post_job response.
func WithSubmitResponse(code int, body string) FakeOption {
	return func(f *FakeSimulator) {
		f.submitCode = code
		f.submitBody = body
	}
}

// WithStatusBody replaces the get_job_status response body.
func WithStatusBody(body string) FakeOption {
	return func(f *FakeSimulator) { f.statusBody = body }
}

// WithResultBody replaces the get_job_result response body.
func WithResultBody(body string) FakeOption {
	return func(f *FakeSimulator) { f.resultBody = body }
}

// WithMemory replaces the computed per-shot records of every job. With no
// records every job finishes with an empty memory.
func WithMemory(records ...string) FakeOption {
	return func(f *FakeSimulator) { f.memory = append([]string{}, records...) }
}

// NewFakeSimulator starts a fake simulator; it is closed when the test ends.
func NewFakeSimulator(t testing.TB, model Model, opts ...FakeOption) *FakeSimulator {
	t.Helper()
	f := &FakeSimulator{
		t:     t,
		model: model,
		jobs:  make(map[string]*fakeJob),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the URL prefix devices should be configured with.
func (f *FakeSimulator) URL() string {
	switch f.model {
	case ModelQudit:
		return f.server.URL + "/api/multiqudit/"
	default:
		return f.server.URL + "/fermions/"
	}
}

// Requests returns every request received so far.
func (f *FakeSimulator) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count returns the number of requests received on an endpoint.
func (f *FakeSimulator) Count(e Endpoint) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Endpoint == e {
			n++
		}
	}
	return n
}

// Submissions returns the decoded payloads received on post_job.
func (f *FakeSimulator) Submissions() []job.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]job.Payload(nil), f.submissions...)
}

// SeedJob registers a finished job, as if submitted by another client.
func (f *FakeSimulator) SeedJob(jobID string, memory ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[jobID] = &fakeJob{memory: memory}
}

func (f *FakeSimulator) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	endpoint := Endpoint(path.Base(r.URL.Path))
	req := Request{
		Method:   r.Method,
		Endpoint: endpoint,
		JSON:     r.Form.Get("json"),
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	if f.username != "" && (req.Username != f.username || req.Password != f.password) {
		http.Error(w, `{"detail":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	switch {
	case endpoint == EndpointSubmit && r.Method == http.MethodPost:
		f.submit(w, req)
	case endpoint == EndpointStatus && r.Method == http.MethodGet:
		f.status(w, req)
	case endpoint == EndpointResult && r.Method == http.MethodGet:
		f.result(w, req)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeSimulator) submit(w http.ResponseWriter, req Request) {
	if f.submitCode != 0 {
		w.WriteHeader(f.submitCode)
		fmt.Fprint(w, f.submitBody)
		return
	}

	var p job.Payload
	if err := json.Unmarshal([]byte(req.JSON), &p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.submissions = append(f.submissions, p)

	memory := f.memory
	if memory == nil {
		record, err := f.run(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		memory = make([]string, p.Shots)
		for i := range memory {
			memory[i] = record
		}
	}

	f.nextID++
	id := fmt.Sprintf("job-%d", f.nextID)
	f.jobs[id] = &fakeJob{
		statuses: append([]string(nil), f.pending...),
		detail:   f.jobError,
		memory:   memory,
	}
	writeJSON(w, map[string]any{"job_id": id, "status": "QUEUED", "detail": "Got your json."})
}

func (f *FakeSimulator) status(w http.ResponseWriter, req Request) {
	if f.statusBody != "" {
		fmt.Fprint(w, f.statusBody)
		return
	}
	id, j, ok := f.lookup(w, req)
	if !ok {
		return
	}
	status := "DONE"
	if len(j.statuses) > 0 {
		status = j.statuses[0]
		j.statuses = j.statuses[1:]
	} else if j.detail != "" {
		status = "ERROR"
	}
	writeJSON(w, map[string]any{"job_id": id, "status": status, "detail": j.detail})
}

func (f *FakeSimulator) result(w http.ResponseWriter, req Request) {
	if f.resultBody != "" {
		fmt.Fprint(w, f.resultBody)
		return
	}
	id, j, ok := f.lookup(w, req)
	if !ok {
		return
	}
	if len(j.statuses) > 0 || j.detail != "" {
		writeJSON(w, map[string]any{"job_id": id, "detail": "job not finished"})
		return
	}
	writeJSON(w, map[string]any{
		"job_id": id,
		"results": []any{
			map[string]any{"data": map[string]any{"memory": j.memory}},
		},
	})
}

func (f *FakeSimulator) lookup(w http.ResponseWriter, req Request) (string, *fakeJob, bool) {
	var body struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal([]byte(req.JSON), &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	j, ok := f.jobs[body.JobID]
	if !ok {
		writeJSON(w, map[string]any{"job_id": body.JobID, "status": "ERROR", "detail": "unknown job"})
		return "", nil, false
	}
	return body.JobID, j, true
}

// run applies the model dynamics and renders the record of measured wires.
func (f *FakeSimulator) run(p job.Payload) (string, error) {
	state := make([]int, p.NumWires)
	atoms := make([]int, p.NumWires)
	var measured []string

	for _, in := range p.Instructions {
		for _, w := range in.Wires {
			if w < 0 || w >= p.NumWires {
				return "", fmt.Errorf("wire %d out of range", w)
			}
		}
		switch in.Opcode {
		case ir.OpcodeMeasure:
			measured = append(measured, fmt.Sprint(state[in.Wires[0]]))
		case "load":
			if f.model == ModelQudit && len(in.Params) == 1 {
				atoms[in.Wires[0]] = int(in.Params[0])
				state[in.Wires[0]] = 0
			} else {
				state[in.Wires[0]] = 1
			}
		case "hop":
			if len(in.Wires) == 4 && nearQuarterTurn(in.Params[0]) {
				w := in.Wires
				state[w[0]], state[w[2]] = state[w[2]], state[w[0]]
				state[w[1]], state[w[3]] = state[w[3]], state[w[1]]
			}
		case "rlx":
			if near(in.Params[0], math.Pi) {
				w := in.Wires[0]
				state[w] = atoms[w] - state[w]
			}
		}
	}
	return strings.Join(measured, " "), nil
}

func nearQuarterTurn(angle float64) bool {
	return near(angle, math.Pi/2) || near(angle, 3*math.Pi/2)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
