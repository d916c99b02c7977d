package api

import (
	"io"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data []byte
	pos  int
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	return nil
}

// mockReply is one scripted response
type mockReply struct {
	status int
	body   string
	err    error
}

// recordedRequest captures what the client sent
type recordedRequest struct {
	Method string
	URL    string
	Header fhttp.Header
	Body   string
}

// MockHttpClient is a mock implementation of tls_client.HttpClient that
// returns scripted replies in order and records every request.
type MockHttpClient struct {
	mu       sync.Mutex
	replies  []mockReply
	Requests []recordedRequest
}

func newMockHttpClient(replies ...mockReply) *MockHttpClient {
	return &MockHttpClient{replies: replies}
}

// Do implements the tls_client.HttpClient interface
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := recordedRequest{Method: req.Method, URL: req.URL.String(), Header: req.Header.Clone()}
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		rec.Body = string(data)
	}
	m.Requests = append(m.Requests, rec)

	if len(m.replies) == 0 {
		return &fhttp.Response{StatusCode: 500, Body: NewMockResponseBody([]byte(`{}`)), Header: make(fhttp.Header)}, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	if reply.err != nil {
		return nil, reply.err
	}
	return &fhttp.Response{
		StatusCode: reply.status,
		Body:       NewMockResponseBody([]byte(reply.body)),
		Header:     make(fhttp.Header),
	}, nil
}

// GetCookies implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }

// SetCookies implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

// SetCookieJar implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}

// GetCookieJar implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }

// SetProxy implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }

// GetProxy implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetProxy() string { return "" }

// SetFollowRedirect implements the tls_client.HttpClient interface
func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}

// GetFollowRedirect implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetFollowRedirect() bool { return false }

// CloseIdleConnections implements the tls_client.HttpClient interface
func (m *MockHttpClient) CloseIdleConnections() {}

// Get implements the tls_client.HttpClient interface
func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) {
	req, _ := fhttp.NewRequest(fhttp.MethodGet, url, nil)
	return m.Do(req)
}

// Head implements the tls_client.HttpClient interface
func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) {
	req, _ := fhttp.NewRequest(fhttp.MethodHead, url, nil)
	return m.Do(req)
}

// Post implements the tls_client.HttpClient interface
func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	req, _ := fhttp.NewRequest(fhttp.MethodPost, url, body)
	req.Header.Set("Content-Type", contentType)
	return m.Do(req)
}

// GetBandwidthTracker implements the tls_client.HttpClient interface
func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker {
	return nil
}
