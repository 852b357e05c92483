package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof" // register handlers
	"regexp"
	"strconv"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (robo *Robot) api(ctx context.Context, listen string, mux *http.ServeMux, metrics []prometheus.Collector) error {
	robo.routes(mux, metrics)
	l, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("couldn't start API server: %w", err)
	}
	srv := http.Server{
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}
	go func() {
		slog.InfoContext(ctx, "HTTP API server", slog.Any("addr", l.Addr()))
		err := srv.Serve(l)
		if err == http.ErrServerClosed {
			return
		}
		slog.ErrorContext(ctx, "HTTP API server closed", slog.Any("err", err))
	}()
	<-ctx.Done()
	// The context is now done, so it is obviously the wrong choice for
	// managing the shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// routes installs the API handlers on mux.
func (robo *Robot) routes(mux *http.ServeMux, metrics []prometheus.Collector) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorMemStatsMetricsDisabled(),
		collectors.WithGoCollectorRuntimeMetrics(
			collectors.GoRuntimeMetricsRule{
				Matcher: regexp.MustCompile(`^(/gc/gogc:percent|/gc/gomemlimit:bytes|/gc/heap/allocs:bytes|/memory/classes/total:bytes|/sched/gomaxprocs:threads|/sched/goroutines:goroutines|/sched/latencies:seconds)$`),
			},
		),
	))
	reg.MustRegister(metrics...)
	opts := promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, opts))
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("GET /api/mode", robo.apiMode)
	mux.HandleFunc("GET /api/commands", robo.apiCommands)
	mux.HandleFunc("GET /api/audit", robo.apiAudit)
}

func jsonerror(w http.ResponseWriter, status int, msg string) {
	v := struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{
		Error:  msg,
		Status: status,
	}
	b, err := json.Marshal(&v)
	if err != nil {
		panic(err)
	}
	w.WriteHeader(status)
	w.Write(b)
}

func apilog(r *http.Request, name string) *slog.Logger {
	log := slog.With(slog.String("api", name), slog.Any("trace", uuid.New()))
	log.InfoContext(r.Context(), "handle", slog.String("route", r.Pattern), slog.String("remote", r.RemoteAddr))
	return log
}

func (robo *Robot) apiMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := apilog(r, "mode")
	defer log.InfoContext(ctx, "done")
	w.Header().Set("Content-Type", "application/json")
	st := robo.dispatch.Mode()
	u := struct {
		Maintenance bool `json:"maintenance"`
		Debug       bool `json:"debug"`
		Verbose     bool `json:"verbose"`
		Status      int  `json:"status"`
	}{
		Maintenance: st.Maintenance,
		Debug:       st.Debug,
		Verbose:     st.Verbose,
		Status:      http.StatusOK,
	}
	b, err := json.Marshal(&u)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(b); err != nil {
		log.ErrorContext(ctx, "write response failed", slog.Any("err", err))
	}
}

type apiCommand struct {
	Trigger     string `json:"trigger"`
	Description string `json:"description"`
	AdminOnly   bool   `json:"admin_only,omitzero"`
	Maintenance bool   `json:"maintenance,omitzero"`
}

func (robo *Robot) apiCommands(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := apilog(r, "commands")
	defer log.InfoContext(ctx, "done")
	w.Header().Set("Content-Type", "application/json")
	cmds := robo.dispatch.Commands()
	songs := robo.cmds.Radio.Entries()
	u := struct {
		Data   []apiCommand `json:"data"`
		Songs  []string     `json:"songs"`
		Status int          `json:"status"`
	}{
		Data:   make([]apiCommand, len(cmds)),
		Songs:  make([]string, len(songs)),
		Status: http.StatusOK,
	}
	for i, c := range cmds {
		u.Data[i] = apiCommand{
			Trigger:     c.Trigger,
			Description: c.Description,
			AdminOnly:   c.AdminOnly,
			Maintenance: c.AvailableInMaintenance,
		}
	}
	for i, e := range songs {
		u.Songs[i] = e.Name
	}
	b, err := json.Marshal(&u)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(b); err != nil {
		log.ErrorContext(ctx, "write response failed", slog.Any("err", err))
	}
}

type apiEntry struct {
	Time    string `json:"time"`
	Sender  string `json:"sender"`
	Trigger string `json:"trigger"`
	Args    string `json:"args,omitzero"`
}

func (robo *Robot) apiAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := apilog(r, "audit")
	defer log.InfoContext(ctx, "done")
	w.Header().Set("Content-Type", "application/json")
	if robo.audit == nil {
		log.WarnContext(ctx, "audit log disabled")
		jsonerror(w, http.StatusNotFound, "audit log disabled")
		return
	}
	n := 20
	if s := r.FormValue("n"); s != "" {
		var err error
		n, err = strconv.Atoi(s)
		if err != nil || n <= 0 {
			log.WarnContext(ctx, "bad request", slog.String("n", s), slog.Any("err", err))
			jsonerror(w, http.StatusBadRequest, "invalid count")
			return
		}
	}
	l, err := robo.audit.Recent(ctx, n)
	if err != nil {
		log.ErrorContext(ctx, "couldn't get audit entries", slog.Any("err", err))
		jsonerror(w, http.StatusInternalServerError, err.Error())
		return
	}
	u := struct {
		Data   []apiEntry `json:"data"`
		Status int        `json:"status"`
	}{
		Data:   make([]apiEntry, len(l)),
		Status: http.StatusOK,
	}
	for i, e := range l {
		u.Data[i] = apiEntry{
			Time:    e.Time.Format(time.RFC3339),
			Sender:  e.Sender,
			Trigger: e.Trigger,
			Args:    e.Args,
		}
	}
	b, err := json.Marshal(&u)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write(b); err != nil {
		log.ErrorContext(ctx, "write response failed", slog.Any("err", err))
	}
}
