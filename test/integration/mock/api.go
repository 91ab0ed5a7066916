package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is one call received by an ApiMock.
type Request struct {
	Headers map[string]string
	Queries map[string]string
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   any
}

// ApiMock is an HTTP server that records requests and answers with canned
// responses keyed by method and path.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	requests  map[string][]Request
	responses map[string]map[int]cannedResponse
	defaults  map[string]cannedResponse
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requests:  map[string][]Request{},
		responses: map[string]map[int]cannedResponse{},
		defaults:  map[string]cannedResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	request := Request{
		Headers: map[string]string{},
		Queries: map[string]string{},
		Body:    map[string]any{},
	}
	_ = json.Unmarshal(body, &request.Body)
	for name, values := range r.Header {
		request.Headers[name] = values[0]
	}
	for name, values := range r.URL.Query() {
		request.Queries[name] = values[0]
	}

	a.mu.Lock()
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], request)
	response, ok := a.responses[key][index]
	if !ok {
		response, ok = a.defaults[key]
	}
	a.mu.Unlock()

	if !ok {
		response = cannedResponse{status: http.StatusOK, body: map[string]any{}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	_ = json.NewEncoder(w).Encode(response.body)
}

// SetResponse answers the index-th call to method+path. An index of -1
// sets the answer for every call without a specific one.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaults[key] = cannedResponse{status: status, body: response}
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]cannedResponse{}
	}
	a.responses[key][index] = cannedResponse{status: status, body: response}
}

// Requests returns the calls received for method+path, oldest first.
func (a *ApiMock) Requests(method, path string) []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests[method+path]...)
}

// Clear forgets recorded calls and canned responses.
func (a *ApiMock) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = map[string][]Request{}
	a.responses = map[string]map[int]cannedResponse{}
	a.defaults = map[string]cannedResponse{}
}
