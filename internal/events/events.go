// Package events declares the lifecycle events the engine publishes on the
// event bus. Start/finish pairs share a request ID carried in the context.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when an HTTP request reaches the GraphQL handler.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the handler writes its response.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// GraphQLStart is emitted before executing a GraphQL operation.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after executing a GraphQL operation. Errors holds
// both request-level failures and per-field errors.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
