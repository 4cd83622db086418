package stream

import (
	"context"

	"rentfleet-backend/internal/domain"
	"rentfleet-backend/internal/logger"
)

// Sink is a best-effort secondary destination for samples.
type Sink interface {
	Publisher
	Name() string
}

// Fanout publishes to a primary publisher and then to every sink. Only the
// primary's error is returned; sink failures are logged.
type Fanout struct {
	primary Publisher
	sinks   []Sink
}

func NewFanout(primary Publisher, sinks ...Sink) *Fanout {
	return &Fanout{primary: primary, sinks: sinks}
}

func (f *Fanout) Publish(ctx context.Context, sample domain.LocationSample) error {
	if err := f.primary.Publish(ctx, sample); err != nil {
		return err
	}
	for _, sink := range f.sinks {
		logger.ExternalServiceCall(sink.Name(), "Publish", "vehicle_id", sample.VehicleID)
		err := sink.Publish(ctx, sample)
		logger.ExternalServiceResult(sink.Name(), "Publish", err, "vehicle_id", sample.VehicleID)
	}
	return nil
}
