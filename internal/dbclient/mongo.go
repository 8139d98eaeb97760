package dbclient

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfmark/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const eventsCollection = "analytics_events"

// mongoEventStore implements domain.EventStore on a MongoDB collection.
type mongoEventStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoEvent is the stored document shape.
type mongoEvent struct {
	ID        string         `bson:"_id"`
	EventType string         `bson:"event_type"`
	Path      string         `bson:"path"`
	Meta      map[string]any `bson:"meta,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
}

func openMongo(ctx context.Context, conn *domain.DatabaseConnection, password string) (domain.EventStore, error) {
	uri, dbName := buildMongoURI(conn, password)

	// Mask password in URI for logging
	logURI := uri
	if password != "" && strings.Contains(logURI, password) {
		logURI = strings.ReplaceAll(logURI, password, "***")
	}
	log.Printf("[MONGO] Connecting with URI: %s (database %s)", logURI, dbName)

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(dbName).Collection(eventsCollection)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_type", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("create mongo indexes: %w", err)
	}
	return &mongoEventStore{client: client, coll: coll}, nil
}

// buildMongoURI returns the connection URI and the database to use.
func buildMongoURI(conn *domain.DatabaseConnection, password string) (string, string) {
	var uri string

	// If host is already a full connection string (Atlas mongodb+srv:// or standard mongodb://),
	// use it directly. Otherwise, build the URI from host:port.
	if strings.HasPrefix(conn.Host, "mongodb+srv://") || strings.HasPrefix(conn.Host, "mongodb://") {
		uri = conn.Host
		// Replace <password> placeholder commonly found in Atlas connection strings
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
	} else {
		port := conn.Port
		if port == 0 {
			port = 27017
		}
		if conn.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", conn.Username, password, conn.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", conn.Host, port)
		}
		if len(conn.Options) > 0 {
			params := []string{}
			for _, k := range sortedKeys(conn.Options) {
				params = append(params, k+"="+conn.Options[k])
			}
			uri += "/?" + strings.Join(params, "&")
		}
	}

	dbName := conn.Database
	if dbName == "" {
		dbName = databaseFromURI(uri)
	}
	if dbName == "" {
		dbName = "pdfmark"
	}
	return uri, dbName
}

// databaseFromURI extracts the path segment of user:pass@host/DB_NAME?params.
func databaseFromURI(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	if atIdx := strings.LastIndex(rest, "@"); atIdx != -1 {
		rest = rest[atIdx+1:]
	}
	slashIdx := strings.Index(rest, "/")
	if slashIdx == -1 {
		return ""
	}
	path := rest[slashIdx+1:]
	if qIdx := strings.Index(path, "?"); qIdx != -1 {
		path = path[:qIdx]
	}
	return path
}

func (m *mongoEventStore) InsertEvent(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	doc := mongoEvent{ID: e.ID, EventType: e.EventType, Path: e.Path, Meta: e.Meta, CreatedAt: e.CreatedAt}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (m *mongoEventStore) QueryEvents(ctx context.Context, f domain.EventFilter) ([]domain.Event, error) {
	filter := bson.M{}
	if f.EventType != "" {
		filter["event_type"] = f.EventType
	}
	if !f.Since.IsZero() {
		filter["created_at"] = bson.M{"$gte": f.Since.UTC()}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEvent
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	events := make([]domain.Event, len(docs))
	for i, d := range docs {
		events[i] = domain.Event{ID: d.ID, EventType: d.EventType, Path: d.Path, Meta: d.Meta, CreatedAt: d.CreatedAt}
	}
	return events, nil
}

func (m *mongoEventStore) CountEvents(ctx context.Context, eventType string) (int64, error) {
	n, err := m.coll.CountDocuments(ctx, bson.M{"event_type": eventType})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (m *mongoEventStore) PruneEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := m.coll.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": before.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.DeletedCount, nil
}

func (m *mongoEventStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
