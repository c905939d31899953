// Package httpapi implements ceeifyd's chi-routed HTTP surface: submit
// source for compilation, fetch or list past compile jobs, and issue
// bearer tokens against the configured admin key.
//
// Grounded on server/api/api.go's API struct + chi route registration and
// server/server.go's route table comment; server/result.Result's
// OK/Err/WriteResponse split is reproduced in result.go.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"ceeify"
	"ceeify/internal/authtoken"
	"ceeify/internal/store"
)

// PathPrefix is the prefix every route is mounted under, mirroring
// server/api.PathPrefix.
const PathPrefix = "/api/v1"

// API holds the dependencies ceeifyd's handlers need.
type API struct {
	Store       *store.Store
	Auth        *authtoken.Issuer
	UnauthDelay time.Duration
}

type compileRequest struct {
	Source string `json:"source"`
}

type jobResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Status string `json:"status"`
}

func toJobResponse(j store.Job) jobResponse {
	return jobResponse{
		ID: j.ID.String(), Source: j.Source, Output: j.Output,
		Error: j.ErrMessage, Status: j.Status.String(),
	}
}

type tokenRequest struct {
	AdminKey string `json:"admin_key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// NewRouter builds the chi router for ceeifyd, mounting /api/v1's routes
// behind Recoverer and, on every /jobs route (reads included), RequireAuth.
// Only POST /tokens is reachable without a bearer token.
func (a *API) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(middleware.RealIP)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/tokens", a.handleIssueToken)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(a.Auth, a.UnauthDelay))
			r.Post("/jobs", a.handleCompile)
			r.Get("/jobs", a.handleListJobs)
			r.Get("/jobs/{id}", a.handleGetJob)
		})
	})

	return r
}

func (a *API) handleIssueToken(w http.ResponseWriter, req *http.Request) {
	var body tokenRequest
	if err := parseJSON(req, &body); err != nil {
		BadRequest(err.Error()).WriteResponse(w, req)
		return
	}

	if !a.Auth.CheckAdminKey(body.AdminKey) {
		time.Sleep(a.UnauthDelay)
		Unauthorized("admin key did not match").WriteResponse(w, req)
		return
	}

	tok, err := a.Auth.Issue()
	if err != nil {
		ServerError(err.Error()).WriteResponse(w, req)
		return
	}

	OK(tokenResponse{Token: tok}, "token issued").WriteResponse(w, req)
}

func (a *API) handleCompile(w http.ResponseWriter, req *http.Request) {
	var body compileRequest
	if err := parseJSON(req, &body); err != nil {
		BadRequest(err.Error()).WriteResponse(w, req)
		return
	}

	job := store.Job{Source: body.Source, Status: store.StatusOK}

	res, compileErr := ceeify.CompileSource("playground", body.Source, ceeify.Options{Emit: true})
	if compileErr != nil {
		job.Status = store.StatusError
		job.ErrMessage = compileErr.FullMessage()
	} else {
		job.Output = res.Output
	}

	created, err := a.Store.Create(req.Context(), job)
	if err != nil {
		ServerError(err.Error()).WriteResponse(w, req)
		return
	}

	if compileErr != nil {
		Created(toJobResponse(created), "compile failed").WriteResponse(w, req)
		return
	}
	Created(toJobResponse(created), "compile succeeded").WriteResponse(w, req)
}

func (a *API) handleGetJob(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		BadRequest("id is not a valid uuid").WriteResponse(w, req)
		return
	}

	job, err := a.Store.GetByID(req.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			NotFound(err.Error()).WriteResponse(w, req)
			return
		}
		ServerError(err.Error()).WriteResponse(w, req)
		return
	}

	OK(toJobResponse(job), "job found").WriteResponse(w, req)
}

func (a *API) handleListJobs(w http.ResponseWriter, req *http.Request) {
	jobs, err := a.Store.List(req.Context())
	if err != nil {
		ServerError(err.Error()).WriteResponse(w, req)
		return
	}

	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
	}
	OK(out, "listed jobs").WriteResponse(w, req)
}
