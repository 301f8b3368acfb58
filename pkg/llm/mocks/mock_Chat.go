// Package mocks provides test doubles for the llm chat interface.
package mocks

import (
	"context"

	llm "github.com/sells-group/needlebench/pkg/llm"
	mock "github.com/stretchr/testify/mock"
)

// MockChat is a mock type for the Chat interface.
type MockChat struct {
	mock.Mock
}

// MockChat_Expecter wraps the mock for typed expectations.
type MockChat_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns a typed expectation builder.
func (_m *MockChat) EXPECT() *MockChat_Expecter {
	return &MockChat_Expecter{mock: &_m.Mock}
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockChat) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}

	var r0 *llm.Response
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, llm.Request) (*llm.Response, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, llm.Request) *llm.Response); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*llm.Response)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, llm.Request) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockChat_Complete_Call is a typed wrapper around mock.Call.
type MockChat_Complete_Call struct {
	*mock.Call
}

// Complete is a helper method to define mock.On call
//   - ctx context.Context
//   - req llm.Request
func (_e *MockChat_Expecter) Complete(ctx interface{}, req interface{}) *MockChat_Complete_Call {
	return &MockChat_Complete_Call{Call: _e.mock.On("Complete", ctx, req)}
}

// Run sets a handler invoked with the call's arguments.
func (_c *MockChat_Complete_Call) Run(run func(ctx context.Context, req llm.Request)) *MockChat_Complete_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(llm.Request))
	})
	return _c
}

// Return sets the values returned by the call.
func (_c *MockChat_Complete_Call) Return(_a0 *llm.Response, _a1 error) *MockChat_Complete_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// Once limits the expectation to a single call.
func (_c *MockChat_Complete_Call) Once() *MockChat_Complete_Call {
	_c.Call.Once()
	return _c
}

// Times limits the expectation to n calls.
func (_c *MockChat_Complete_Call) Times(n int) *MockChat_Complete_Call {
	_c.Call.Times(n)
	return _c
}

// NewMockChat creates a new instance of MockChat.
func NewMockChat(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockChat {
	mock := &MockChat{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
