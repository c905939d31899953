package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorBody is the JSON shape written for any non-2xx response, mirroring
// server/result.ErrorResponse.
type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a deferred HTTP response: handlers build and return one rather
// than writing to http.ResponseWriter directly, grounded on
// server/result.Result's OK/Err/WriteResponse split.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string
	resp        interface{}
}

// OK wraps respObj in an HTTP-200 JSON response.
func OK(respObj interface{}, internalMsg string) Result {
	return Result{Status: http.StatusOK, InternalMsg: internalMsg, resp: respObj}
}

// Created wraps respObj in an HTTP-201 JSON response.
func Created(respObj interface{}, internalMsg string) Result {
	return Result{Status: http.StatusCreated, InternalMsg: internalMsg, resp: respObj}
}

// Err builds an HTTP error response. userMsg is sent to the client; internalMsg
// is logged only.
func Err(status int, userMsg, internalMsg string) Result {
	return Result{
		Status: status, IsErr: true, InternalMsg: internalMsg,
		resp: errorBody{Error: userMsg, Status: status},
	}
}

func BadRequest(internalMsg string) Result {
	return Err(http.StatusBadRequest, "the request could not be understood", internalMsg)
}

func Unauthorized(internalMsg string) Result {
	return Err(http.StatusUnauthorized, "missing or invalid bearer token", internalMsg)
}

func NotFound(internalMsg string) Result {
	return Err(http.StatusNotFound, "the requested resource was not found", internalMsg)
}

func ServerError(internalMsg string) Result {
	return Err(http.StatusInternalServerError, "an internal server error occurred", internalMsg)
}

// WriteResponse marshals and writes r to w, logging internalMsg alongside
// the method/path, mirroring server/result.Result.WriteResponse +
// logHttpResponse.
func (r Result) WriteResponse(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	body, err := json.Marshal(r.resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"could not marshal response","status":500}`))
		logResult("ERROR", req, http.StatusInternalServerError, fmt.Sprintf("marshal failure: %s", err))
		return
	}

	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}
	logResult(level, req, r.Status, r.InternalMsg)

	w.WriteHeader(r.Status)
	_, _ = w.Write(body)
}
