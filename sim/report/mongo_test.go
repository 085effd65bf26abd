package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCycleDocument_BSON(t *testing.T) {
	doc := newCycleDocument("run-1", fixtureSnapshot())

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	r := bson.Raw(raw)
	assert.Equal(t, "run-1", r.Lookup("run_id").StringValue())
	assert.Equal(t, int64(7), r.Lookup("cycle").Int64())
	assert.Equal(t, "BR-101", r.Lookup("highway").StringValue())
	assert.Equal(t, fixtureTime, r.Lookup("timestamp").Time().UTC())

	var back cycleDocument
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, statsDocument{Vehicles: 14, Moving: 13, Collisions: 1, AboveSpeedLimit: 1}, back.Stats)
	require.Len(t, back.Vehicles, 14)
	assert.Equal(t, vehicleDocument{ID: "c", Direction: "incoming", Lane: 1, Distance: 4, Collided: true}, back.Vehicles[2])
}

func TestMongoReporter_Unreachable_ReportFails(t *testing.T) {
	// GIVEN a server nobody listens on; the driver connects lazily
	m, err := NewMongoReporter(context.Background(),
		"mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100&connectTimeoutMS=100",
		DefaultMongoDatabase, DefaultMongoCollection, "run-1")
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	assert.Error(t, m.Report(ctx, fixtureSnapshot()))
}
