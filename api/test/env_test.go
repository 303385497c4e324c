package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"

	"github.com/vsharafi/store-api/api"
	"github.com/vsharafi/store-api/api/background"
	"github.com/vsharafi/store-api/config"
	"github.com/vsharafi/store-api/core/claims"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/events"
	"github.com/vsharafi/store-api/rate"
)

// TestEnv runs the full API against a disposable Postgres container.
type TestEnv struct {
	DB     *sqlx.DB
	Bus    *events.Bus
	Server *httptest.Server
	URL    string
}

func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("connecting to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=" + name,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	cfg := config.DB{
		User:         "postgres",
		Password:     "postgres",
		Host:         resource.GetHostPort("5432/tcp"),
		Name:         name,
		MaxIdleConns: 2,
		MaxOpenConns: 10,
		DisableTLS:   true,
	}

	var db *sqlx.DB
	err = pool.Retry(func() error {
		var err error
		db, err = database.Open(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return database.StatusCheck(ctx, db)
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for postgres: %w", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating test database: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	bg := background.New(logger)
	bus := events.NewBus(logger, bg)

	session := scs.New()
	session.Lifetime = time.Hour

	mux := api.APIMux(api.APIConfig{
		Log:           logger,
		DB:            db,
		Session:       session,
		Bus:           bus,
		CheckoutLimit: rate.NewLimiter(1000, 60, 1000),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &TestEnv{
		DB:     db,
		Bus:    bus,
		Server: server,
		URL:    server.URL,
	}, nil
}

// identity headers, as the trusted gateway would set them

func staff() map[string]string {
	return map[string]string{
		claims.HeaderUserID: "staff-user",
		claims.HeaderRole:   claims.RoleStaff,
	}
}

func asCustomer(userID string) map[string]string {
	return map[string]string{
		claims.HeaderUserID: userID,
		claims.HeaderRole:   claims.RoleCustomer,
	}
}

func anonymous() map[string]string { return nil }

// request performs an HTTP call, decoding a JSON response body into out when
// out is non-nil. It returns the response status code.
func (te *TestEnv) request(t *testing.T, method, path string, hdr map[string]string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	r, err := http.NewRequest(method, te.URL+path, rd)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		r.Header.Set(k, v)
	}

	w, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer w.Body.Close()

	if out != nil && w.StatusCode < http.StatusMultipleChoices && w.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding response of %s %s: %v", method, path, err)
		}
	}

	return w.StatusCode
}
