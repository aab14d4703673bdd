package models

import "time"

type Response struct {
	Error string `json:"error"`
}

// ErrorResponse is the single error body shape returned by every route.
func ErrorResponse(err string) Response {
	return Response{Error: err}
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
