package report

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/highway-sim/highway-sim/sim"
)

// Default database and collection for MongoReporter.
const (
	DefaultMongoDatabase   = "highway"
	DefaultMongoCollection = "cycles"
)

type vehicleDocument struct {
	ID        string `bson:"id"`
	Direction string `bson:"direction"`
	Lane      int    `bson:"lane"`
	Distance  int    `bson:"distance"`
	Speed     int    `bson:"speed"`
	Collided  bool   `bson:"collided"`
}

type statsDocument struct {
	Vehicles        int `bson:"vehicles"`
	Moving          int `bson:"moving"`
	Collisions      int `bson:"collisions"`
	AboveSpeedLimit int `bson:"above_speed_limit"`
}

type cycleDocument struct {
	RunID      string            `bson:"run_id"`
	Cycle      int64             `bson:"cycle"`
	Timestamp  time.Time         `bson:"timestamp"`
	Highway    string            `bson:"highway"`
	Lanes      int               `bson:"lanes"`
	Size       int               `bson:"size"`
	SpeedLimit int               `bson:"speed_limit"`
	Stats      statsDocument     `bson:"stats"`
	Vehicles   []vehicleDocument `bson:"vehicles"`
}

func newCycleDocument(runID string, snap *sim.Snapshot) cycleDocument {
	stats := snap.Stats()
	doc := cycleDocument{
		RunID:      runID,
		Cycle:      snap.Cycle,
		Timestamp:  snap.Timestamp,
		Highway:    snap.Highway.Name,
		Lanes:      snap.Highway.Lanes,
		Size:       snap.Highway.Size,
		SpeedLimit: snap.Highway.SpeedLimit,
		Stats: statsDocument{
			Vehicles:        stats.Vehicles,
			Moving:          stats.Moving,
			Collisions:      stats.Collisions,
			AboveSpeedLimit: stats.AboveSpeedLimit,
		},
		Vehicles: make([]vehicleDocument, 0, len(snap.Vehicles)),
	}
	for _, v := range snap.Vehicles {
		doc.Vehicles = append(doc.Vehicles, vehicleDocument{
			ID:        v.ID,
			Direction: v.Direction.String(),
			Lane:      v.Lane,
			Distance:  v.Distance,
			Speed:     v.Speed,
			Collided:  v.Collided,
		})
	}
	return doc
}

// MongoReporter stores one document per cycle in a MongoDB collection.
type MongoReporter struct {
	client  *mongo.Client
	coll    *mongo.Collection
	runID   string
	timeout time.Duration
}

// NewMongoReporter connects to uri. The driver connects lazily, so an
// unreachable server surfaces as Report errors rather than here.
func NewMongoReporter(ctx context.Context, uri, database, collection, runID string) (*MongoReporter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	return &MongoReporter{
		client:  client,
		coll:    client.Database(database).Collection(collection),
		runID:   runID,
		timeout: DefaultRPCTimeout,
	}, nil
}

func (m *MongoReporter) Name() string { return "mongo" }

func (m *MongoReporter) Report(ctx context.Context, snap *sim.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if _, err := m.coll.InsertOne(ctx, newCycleDocument(m.runID, snap)); err != nil {
		return fmt.Errorf("insert cycle %d: %w", snap.Cycle, err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoReporter) Close() error {
	return m.client.Disconnect(context.Background())
}
