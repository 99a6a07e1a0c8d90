package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/prun-ccc/internal/application/mediator"
)

type echoQuery struct{ Value string }

type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q := request.(*echoQuery)
	if q.Value == "" {
		return nil, errors.New("empty")
	}
	return q.Value, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*echoQuery](m, echoHandler{}))

	// Act
	resp, err := m.Send(context.Background(), &echoQuery{Value: "hi"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hi", resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*echoQuery](m, echoHandler{}))

	err := mediator.RegisterHandler[*echoQuery](m, echoHandler{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), struct{}{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*echoQuery](m, echoHandler{}))

	var calls []string
	record := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			calls = append(calls, name+":before")
			resp, err := next(ctx, request)
			calls = append(calls, name+":after")
			return resp, err
		}
	}
	m.RegisterMiddleware(record("outer"))
	m.RegisterMiddleware(record("inner"))

	// Act
	_, err := m.Send(context.Background(), &echoQuery{Value: "x"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, calls)
}
