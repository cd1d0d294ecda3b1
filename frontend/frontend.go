package frontend

import (
	"context"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/moratsam/logscan/frontend DatasetAPI

const (
	overviewEndpoint = "/"
	takeEndpoint     = "/take"
)

// DatasetAPI defines a set of API methods for inspecting the dataset snapshot
// currently exposed by the deployment.
type DatasetAPI interface {
	// Count returns the total number of records the current snapshot covers.
	Count() (int64, error)

	// Take returns the first n records of the current snapshot.
	Take(ctx context.Context, n int64) ([]*eventlog.Record, error)
}

// Frontend implements the front-end component for the logscan project.
type Frontend struct {
	cfg    Config
	router *mux.Router

	// A template executor hook which tests can override.
	tplExecutor func(tpl *template.Template, w io.Writer, data map[string]interface{}) error
}

// NewFrontend creates a new front-end instance with the specified config.
func NewFrontend(cfg Config) (*Frontend, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("front-end service: config validation failed: %w", err)
	}

	f := &Frontend{
		router: mux.NewRouter(),
		cfg:    cfg,
		tplExecutor: func(tpl *template.Template, w io.Writer, data map[string]interface{}) error {
			return tpl.Execute(w, data)
		},
	}

	f.router.HandleFunc(overviewEndpoint, f.renderOverviewPage).Methods("GET")
	f.router.HandleFunc(takeEndpoint, f.renderTakeResults).Methods("GET")
	f.router.NotFoundHandler = http.HandlerFunc(f.render404Page)
	return f, nil
}

func (f *Frontend) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", f.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:    f.cfg.ListenAddr,
		Handler: f.router,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err = srv.Serve(l); err == http.ErrServerClosed {
		// Ignore error when the server shuts down.
		err = nil
	}

	return err
}

func (f *Frontend) renderOverviewPage(w http.ResponseWriter, _ *http.Request) {
	count, err := f.cfg.DatasetAPI.Count()
	if err != nil {
		f.renderErrorPage(w)
		return
	}
	_ = f.tplExecutor(overviewPageTemplate, w, map[string]interface{}{
		"takeEndpoint": takeEndpoint,
		"count":        count,
	})
}

func (f *Frontend) render404Page(w http.ResponseWriter, _ *http.Request) {
	_ = f.tplExecutor(msgPageTemplate, w, map[string]interface{}{
		"overviewEndpoint": overviewEndpoint,
		"messageTitle":     "Page not found",
		"messageContent":   "Page not found.",
	})
}

func (f *Frontend) renderErrorPage(w http.ResponseWriter) {
	w.WriteHeader(http.StatusInternalServerError)
	_ = f.tplExecutor(msgPageTemplate, w, map[string]interface{}{
		"overviewEndpoint": overviewEndpoint,
		"messageTitle":     "Error",
		"messageContent":   "An error occurred; please try again later.",
	})
}

func (f *Frontend) renderTakeResults(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.ParseInt(r.URL.Query().Get("n"), 10, 64)
	if n > f.cfg.MaxTakeResults {
		n = f.cfg.MaxTakeResults
	}

	records, err := f.cfg.DatasetAPI.Take(r.Context(), n)
	if err != nil {
		f.renderErrorPage(w)
		return
	}

	// Wrap each record in a shim for rendering.
	results := make([]record, len(records))
	for i, rec := range records {
		results[i] = record{rec: rec}
	}

	if err := f.tplExecutor(takePageTemplate, w, map[string]interface{}{
		"overviewEndpoint": overviewEndpoint,
		"takeEndpoint":     takeEndpoint,
		"n":                n,
		"results":          results,
	}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// record wraps an eventlog.Record and provides convenience methods for
// rendering its contents in a take results view.
type record struct {
	rec *eventlog.Record
}

func (r record) Partition() int    { return r.rec.Partition }
func (r record) SeqNo() int64      { return r.rec.SeqNo }
func (r record) Timestamp() string { return r.rec.Timestamp.Format("2006-01-02 15:04:05") }
func (r record) Value() string     { return string(r.rec.Value) }
