package exportrouter

import (
	"context"

	"github.com/goliatone/go-excel-response/adapters/exportapi"
	"github.com/goliatone/go-router"
)

// exchange adapts a go-router context to the controller. go-router has no
// header removal, so DelHeader blanks the value instead.
type exchange struct {
	c router.Context
}

func (ex exchange) Context() context.Context {
	if ctx := ex.c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (ex exchange) Method() string { return ex.c.Method() }

func (ex exchange) Path() string { return ex.c.Path() }

func (ex exchange) Header(name string) string { return ex.c.Header(name) }

func (ex exchange) Query(name string) string { return ex.c.Query(name) }

func (ex exchange) SetHeader(name, value string) { ex.c.SetHeader(name, value) }

func (ex exchange) DelHeader(name string) { ex.c.SetHeader(name, "") }

func (ex exchange) WriteHeader(status int) { ex.c.Status(status) }

func (ex exchange) Write(data []byte) (int, error) {
	if err := ex.c.Send(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (ex exchange) WriteJSON(status int, payload any) error {
	return ex.c.JSON(status, payload)
}

var (
	_ exportapi.Request  = exchange{}
	_ exportapi.Response = exchange{}
)
