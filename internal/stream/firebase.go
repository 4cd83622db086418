package stream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rentfleet-backend/internal/domain"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// realtimeWriter is the part of the Realtime Database client the mirror uses.
type realtimeWriter interface {
	Set(ctx context.Context, path string, v interface{}) error
}

type dbWriter struct {
	client *db.Client
}

func (w dbWriter) Set(ctx context.Context, path string, v interface{}) error {
	return w.client.NewRef(path).Set(ctx, v)
}

// mirroredLocation is the document shape map clients read from
// locations/{vehicleId}.
type mirroredLocation struct {
	UserID    int32   `json:"userId"`
	VehicleID int32   `json:"vehicleId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	UpdatedAt string  `json:"updatedAt"`
}

// FirebaseMirror copies every sample to the Realtime Database.
type FirebaseMirror struct {
	writer realtimeWriter
}

func NewFirebaseMirror(ctx context.Context, databaseURL, credentialsFile string) (*FirebaseMirror, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}
	return &FirebaseMirror{writer: dbWriter{client: client}}, nil
}

func (m *FirebaseMirror) Name() string { return "firebase" }

func (m *FirebaseMirror) Publish(ctx context.Context, sample domain.LocationSample) error {
	doc := mirroredLocation{
		UserID:    sample.ReporterID,
		VehicleID: sample.VehicleID,
		Lat:       sample.Lat,
		Lng:       sample.Lng,
		UpdatedAt: sample.CapturedAt.UTC().Format(time.RFC3339Nano),
	}
	path := "locations/" + strconv.Itoa(int(sample.VehicleID))
	if err := m.writer.Set(ctx, path, doc); err != nil {
		return fmt.Errorf("firebase set %s: %w", path, err)
	}
	return nil
}
