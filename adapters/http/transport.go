package exporthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/goliatone/go-excel-response/adapters/exportapi"
)

// exchange adapts one net/http request/response pair to the controller.
type exchange struct {
	w     http.ResponseWriter
	r     *http.Request
	query url.Values
}

func newExchange(w http.ResponseWriter, r *http.Request) *exchange {
	ex := &exchange{w: w, r: r}
	if r != nil && r.URL != nil {
		ex.query = r.URL.Query()
	}
	return ex
}

func (ex *exchange) Context() context.Context {
	if ex.r == nil {
		return context.Background()
	}
	return ex.r.Context()
}

func (ex *exchange) Method() string {
	if ex.r == nil {
		return ""
	}
	return ex.r.Method
}

func (ex *exchange) Path() string {
	if ex.r == nil || ex.r.URL == nil {
		return ""
	}
	return ex.r.URL.Path
}

func (ex *exchange) Header(name string) string {
	if ex.r == nil {
		return ""
	}
	return ex.r.Header.Get(name)
}

func (ex *exchange) Query(name string) string { return ex.query.Get(name) }

func (ex *exchange) SetHeader(name, value string) { ex.w.Header().Set(name, value) }

func (ex *exchange) DelHeader(name string) { ex.w.Header().Del(name) }

func (ex *exchange) WriteHeader(status int) { ex.w.WriteHeader(status) }

func (ex *exchange) Write(data []byte) (int, error) { return ex.w.Write(data) }

func (ex *exchange) WriteJSON(status int, payload any) error {
	ex.w.Header().Set("Content-Type", "application/json")
	ex.w.WriteHeader(status)
	return json.NewEncoder(ex.w).Encode(payload)
}

var (
	_ exportapi.Request  = (*exchange)(nil)
	_ exportapi.Response = (*exchange)(nil)
)
