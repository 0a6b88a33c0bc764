package responder

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haukened/fixed-dns/internal/dns/common/log"
	"github.com/haukened/fixed-dns/internal/dns/domain"
	"github.com/haukened/fixed-dns/internal/dns/gateways/wire"
)

// MockBuilder implements wire.ResponseBuilder for testing
type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) BuildResponse(request []byte, cfg domain.ResponseConfig) ([]byte, error) {
	args := m.Called(request, cfg)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLogger implements log.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Info(fields map[string]any, msg string)  { m.Called(fields, msg) }
func (m *MockLogger) Error(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Debug(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Warn(fields map[string]any, msg string)  { m.Called(fields, msg) }
func (m *MockLogger) Panic(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Fatal(fields map[string]any, msg string) { m.Called(fields, msg) }

var testClient = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}

func TestNew(t *testing.T) {
	cfg := domain.DefaultResponseConfig()

	r, err := New(Options{Builder: &MockBuilder{}, Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, cfg, r.Config())

	_, err = New(Options{Config: cfg})
	assert.ErrorIs(t, err, ErrNoBuilder)

	bad := cfg
	bad.Header.Z = 1
	_, err = New(Options{Builder: &MockBuilder{}, Config: bad})
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "header.z", cfgErr.Field)
}

func TestHandleDatagram_Success(t *testing.T) {
	cfg := domain.DefaultResponseConfig()
	request := []byte{0x1a, 0x2b, 0x01, 0x00}
	reply := []byte{0x1a, 0x2b, 0x80, 0x00}

	builder := &MockBuilder{}
	builder.On("BuildResponse", request, cfg).Return(reply, nil).Once()

	r, err := New(Options{Builder: builder, Config: cfg, Logger: log.NewNoopLogger()})
	require.NoError(t, err)

	got, err := r.HandleDatagram(context.Background(), request, testClient)
	require.NoError(t, err)
	assert.Equal(t, reply, got)
	assert.Equal(t, Stats{Served: 1}, r.Stats())
	builder.AssertExpectations(t)
}

func TestHandleDatagram_ShortRequestFallsBack(t *testing.T) {
	cfg := domain.DefaultResponseConfig()
	request := []byte{0x01}

	logger := &MockLogger{}
	logger.On("Debug", mock.MatchedBy(func(f map[string]any) bool {
		return f["default_id"] == domain.DefaultID && f["size"] == 1 && f["client"] == testClient.String()
	}), "Request too short for a transaction id, using default").Once()

	r, err := New(Options{Builder: wire.NewMessageBuilder(nil), Config: cfg, Logger: logger})
	require.NoError(t, err)

	got, err := r.HandleDatagram(context.Background(), request, testClient)
	require.NoError(t, err)
	id, err := wire.TransactionID(got)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultID, id)
	assert.Equal(t, Stats{Served: 1, Fallbacks: 1}, r.Stats())
	logger.AssertExpectations(t)
}

func TestHandleDatagram_BuildError(t *testing.T) {
	cfg := domain.DefaultResponseConfig()
	request := []byte{0x00, 0x01}

	builder := &MockBuilder{}
	builder.On("BuildResponse", request, cfg).Return(nil, assert.AnError).Once()

	r, err := New(Options{Builder: builder, Config: cfg})
	require.NoError(t, err)

	got, err := r.HandleDatagram(context.Background(), request, nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "building response")
	assert.Nil(t, got)
	assert.Equal(t, Stats{Failures: 1}, r.Stats())
}

func TestHandleDatagram_CancelledContext(t *testing.T) {
	builder := &MockBuilder{}
	r, err := New(Options{Builder: builder, Config: domain.DefaultResponseConfig()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.HandleDatagram(ctx, []byte{0, 1}, testClient)
	assert.True(t, errors.Is(err, context.Canceled))
	builder.AssertNotCalled(t, "BuildResponse", mock.Anything, mock.Anything)
}

func TestHandleDatagram_SameInputSameOutput(t *testing.T) {
	r, err := New(Options{Builder: wire.NewMessageBuilder(nil), Config: domain.DefaultResponseConfig()})
	require.NoError(t, err)

	request := []byte{0xde, 0xad, 0x01, 0x00, 0x00, 0x01}
	first, err := r.HandleDatagram(context.Background(), request, testClient)
	require.NoError(t, err)
	second, err := r.HandleDatagram(context.Background(), request, testClient)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []byte{0xde, 0xad}, first[:2])
}
