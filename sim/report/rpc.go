package report

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/highway-sim/highway-sim/sim"
)

// ReportCycleProcedure is the RPC the reporter calls once per cycle.
const ReportCycleProcedure = "/highway.v1.SimulationService/ReportCycle"

// DefaultRPCTimeout bounds a single report call.
const DefaultRPCTimeout = 2 * time.Second

// RPCReporter sends every snapshot to a remote collector as a
// google.protobuf.Struct over a unary connect call.
type RPCReporter struct {
	client  *connect.Client[structpb.Struct, emptypb.Empty]
	timeout time.Duration
}

// NewRPCReporter creates a reporter for the collector at baseURL
// (e.g. "http://localhost:50051"). A non-positive timeout selects
// DefaultRPCTimeout.
func NewRPCReporter(httpClient connect.HTTPClient, baseURL string, timeout time.Duration, opts ...connect.ClientOption) *RPCReporter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	url := strings.TrimRight(baseURL, "/") + ReportCycleProcedure
	return &RPCReporter{
		client:  connect.NewClient[structpb.Struct, emptypb.Empty](httpClient, url, opts...),
		timeout: timeout,
	}
}

func (r *RPCReporter) Name() string { return "rpc" }

func (r *RPCReporter) Report(ctx context.Context, snap *sim.Snapshot) error {
	msg, err := SnapshotStruct(snap)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if _, err := r.client.CallUnary(ctx, connect.NewRequest(msg)); err != nil {
		return fmt.Errorf("report cycle %d: %w", snap.Cycle, err)
	}
	return nil
}

// SnapshotStruct encodes a snapshot as the ReportCycle payload:
//
//	{cycle, timestamp, highway: {name, lanes, size, speed_limit},
//	 vehicles: [{id, direction, lane, distance}]}
//
// timestamp is in fractional Unix seconds; direction is "incoming" or "outgoing".
func SnapshotStruct(snap *sim.Snapshot) (*structpb.Struct, error) {
	vehicles := make([]any, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		vehicles = append(vehicles, map[string]any{
			"id":        v.ID,
			"direction": v.Direction.String(),
			"lane":      v.Lane,
			"distance":  v.Distance,
		})
	}
	h := snap.Highway
	s, err := structpb.NewStruct(map[string]any{
		"cycle":     snap.Cycle,
		"timestamp": float64(snap.Timestamp.UnixNano()) / 1e9,
		"highway": map[string]any{
			"name":        h.Name,
			"lanes":       h.Lanes,
			"size":        h.Size,
			"speed_limit": h.SpeedLimit,
		},
		"vehicles": vehicles,
	})
	if err != nil {
		return nil, fmt.Errorf("encode cycle %d: %w", snap.Cycle, err)
	}
	return s, nil
}
