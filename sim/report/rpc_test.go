package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// collector is an in-process ReportCycle server recording what it receives.
func collector(t *testing.T, received chan<- *structpb.Struct) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(ReportCycleProcedure, connect.NewUnaryHandler(ReportCycleProcedure,
		func(_ context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[emptypb.Empty], error) {
			received <- req.Msg
			return connect.NewResponse(&emptypb.Empty{}), nil
		}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSnapshotStruct_Fields(t *testing.T) {
	s, err := SnapshotStruct(fixtureSnapshot())
	require.NoError(t, err)

	m := s.AsMap()
	assert.Equal(t, 7.0, m["cycle"])
	assert.Equal(t, 1704067200.0, m["timestamp"])
	assert.Equal(t, map[string]any{"name": "BR-101", "lanes": 2.0, "size": 6.0, "speed_limit": 2.0}, m["highway"])
	vehicles := m["vehicles"].([]any)
	require.Len(t, vehicles, 14)
	assert.Equal(t, map[string]any{"id": "c", "direction": "incoming", "lane": 1.0, "distance": 4.0}, vehicles[2])
	assert.Equal(t, "outgoing", vehicles[3].(map[string]any)["direction"])
}

func TestRPCReporter_DeliversSnapshot(t *testing.T) {
	received := make(chan *structpb.Struct, 1)
	srv := collector(t, received)
	r := NewRPCReporter(srv.Client(), srv.URL, time.Second)

	require.NoError(t, r.Report(context.Background(), fixtureSnapshot()))

	got := <-received
	assert.Equal(t, 7.0, got.GetFields()["cycle"].GetNumberValue())
	assert.Len(t, got.GetFields()["vehicles"].GetListValue().GetValues(), 14)
}

func TestRPCReporter_CollectorDown_ReturnsError(t *testing.T) {
	srv := collector(t, make(chan *structpb.Struct, 1))
	url := srv.URL
	srv.Close()
	r := NewRPCReporter(nil, url, 200*time.Millisecond)

	err := r.Report(context.Background(), fixtureSnapshot())

	require.Error(t, err)
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
}
