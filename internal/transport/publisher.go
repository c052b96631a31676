package transport

import (
	"errors"

	"go.uber.org/zap"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

// Sink receives frames. Send must not block for long; it is called from
// the simulation loop.
type Sink interface {
	Send(f Frame) error
	Close() error
}

// Publisher builds a frame after each tick and hands it to every sink.
// A sink that reports dynamo.ErrNotConnected is dropped.
type Publisher struct {
	builder *FrameBuilder
	sinks   []Sink
	logger  *zap.Logger
}

func NewPublisher(car *physics.Car, logger *zap.Logger, sinks ...Sink) *Publisher {
	return &Publisher{
		builder: NewFrameBuilder(car),
		sinks:   sinks,
		logger:  logger,
	}
}

func (p *Publisher) AddSink(s Sink) { p.sinks = append(p.sinks, s) }

func (p *Publisher) OnStep(s physics.State, in physics.Input, t float64) {
	p.Publish(p.builder.Next(t))
}

func (p *Publisher) Publish(f Frame) {
	live := p.sinks[:0]
	for _, sink := range p.sinks {
		err := sink.Send(f)
		switch {
		case err == nil:
		case errors.Is(err, dynamo.ErrNotConnected):
			p.logger.Warn("sink disconnected", zap.Error(err))
			continue
		default:
			p.logger.Error("send frame", zap.Float64("t", f.Time), zap.Error(err))
		}
		live = append(live, sink)
	}
	p.sinks = live
}

// ResetWheels restarts wheel rotation, e.g. after the car is reset.
func (p *Publisher) ResetWheels() { p.builder.Reset() }

func (p *Publisher) Close() error {
	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.sinks = nil
	return errors.Join(errs...)
}
