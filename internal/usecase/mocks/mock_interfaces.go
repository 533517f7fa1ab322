//	mockgen -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks github.com/finbook/finbook/internal/usecase BatchPoster,Retrier
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	domain "github.com/finbook/finbook/internal/domain"
	usecase "github.com/finbook/finbook/internal/usecase"
	gomock "go.uber.org/mock/gomock"
)

// MockBatchPoster is a mock of BatchPoster interface.
type MockBatchPoster struct {
	ctrl     *gomock.Controller
	recorder *MockBatchPosterMockRecorder
	isgomock struct{}
}

// MockBatchPosterMockRecorder is the mock recorder for MockBatchPoster.
type MockBatchPosterMockRecorder struct {
	mock *MockBatchPoster
}

// NewMockBatchPoster creates a new mock instance.
func NewMockBatchPoster(ctrl *gomock.Controller) *MockBatchPoster {
	mock := &MockBatchPoster{ctrl: ctrl}
	mock.recorder = &MockBatchPosterMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBatchPoster) EXPECT() *MockBatchPosterMockRecorder {
	return m.recorder
}

// PostBatchTx mocks base method.
func (m *MockBatchPoster) PostBatchTx(ctx context.Context, tx usecase.Transaction, input usecase.PostBatchInput) (*domain.PostingBatch, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PostBatchTx", ctx, tx, input)
	ret0, _ := ret[0].(*domain.PostingBatch)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PostBatchTx indicates an expected call of PostBatchTx.
func (mr *MockBatchPosterMockRecorder) PostBatchTx(ctx, tx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PostBatchTx", reflect.TypeOf((*MockBatchPoster)(nil).PostBatchTx), ctx, tx, input)
}

// MockRetrier is a mock of Retrier interface.
type MockRetrier struct {
	ctrl     *gomock.Controller
	recorder *MockRetrierMockRecorder
	isgomock struct{}
}

// MockRetrierMockRecorder is the mock recorder for MockRetrier.
type MockRetrierMockRecorder struct {
	mock *MockRetrier
}

// NewMockRetrier creates a new mock instance.
func NewMockRetrier(ctrl *gomock.Controller) *MockRetrier {
	mock := &MockRetrier{ctrl: ctrl}
	mock.recorder = &MockRetrierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRetrier) EXPECT() *MockRetrierMockRecorder {
	return m.recorder
}

// Retry mocks base method.
func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Retry", ctx, operation)
	ret0, _ := ret[0].(error)
	return ret0
}

// Retry indicates an expected call of Retry.
func (mr *MockRetrierMockRecorder) Retry(ctx, operation any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Retry", reflect.TypeOf((*MockRetrier)(nil).Retry), ctx, operation)
}
