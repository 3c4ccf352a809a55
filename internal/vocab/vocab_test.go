package vocab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{
		ProductNames:  []string{"Chicken Soup"},
		EmployeeNames: []string{"John Smith"},
	}
	assert.Equal(t, []string{"Chicken Soup"}, p.Products(context.Background()))
	assert.Equal(t, []string{"John Smith"}, p.Employees(context.Background()))
}

func TestHTTPProvider_FetchesNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			_, _ = w.Write([]byte(`[{"name":"Chicken Soup","id":1},{"name":"Beef Stew","id":2},{"id":3}]`))
		case "/employees":
			_, _ = w.Write([]byte(`[{"name":"Jane Doe"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewHTTPProvider(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)

	products := p.Products(context.Background())
	assert.Equal(t, []string{"Chicken Soup", "Beef Stew"}, products)

	employees := p.Employees(context.Background())
	assert.Equal(t, []string{"Jane Doe"}, employees)
}

func TestHTTPProvider_DegradesToEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewHTTPProvider(Config{BaseURL: srv.URL}, nil)
		assert.Empty(t, p.Products(context.Background()))
	})

	t.Run("unreachable backend", func(t *testing.T) {
		p := NewHTTPProvider(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)
		assert.Empty(t, p.Employees(context.Background()))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		p := NewHTTPProvider(Config{BaseURL: srv.URL}, nil)
		assert.Empty(t, p.Products(context.Background()))
	})
}

func TestNewFromConfig(t *testing.T) {
	assert.IsType(t, StaticProvider{}, NewFromConfig(Config{}, nil))
	assert.IsType(t, &HTTPProvider{}, NewFromConfig(Config{BaseURL: "http://x"}, nil))
}
