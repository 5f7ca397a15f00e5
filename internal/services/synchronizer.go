package services

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/ports"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRefreshDelay is the quiet period before views are redrawn.
const DefaultRefreshDelay = 100 * time.Millisecond

// ErrSubscriptionClosed is returned by Run when the store ends the stream.
var ErrSubscriptionClosed = errors.New("subscription closed")

type SynchronizerOptions struct {
	Collection string
	Delay      time.Duration
	Scheduler  Scheduler
	Logger     logrus.FieldLogger
}

// Synchronizer keeps a Mirror consistent with a store collection and redraws
// renderers once per burst of mutations.
//
// All mirror writes, coalescer decisions and Render calls happen on the
// goroutine executing Run.
type Synchronizer struct {
	store      ports.DeliveryStore
	collection string
	mirror     *Mirror
	renderers  []ports.Renderer
	log        logrus.FieldLogger

	coalescer *Coalescer
	fires     chan uint64
	done      chan struct{}
	redraws   uint64
}

func NewSynchronizer(
	store ports.DeliveryStore,
	mirror *Mirror,
	renderers []ports.Renderer,
	opts SynchronizerOptions,
) *Synchronizer {
	if opts.Delay <= 0 {
		opts.Delay = DefaultRefreshDelay
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Synchronizer{
		store:      store,
		collection: opts.Collection,
		mirror:     mirror,
		renderers:  renderers,
		log:        opts.Logger.WithField("collection", opts.Collection),
		fires:      make(chan uint64, 4),
		done:       make(chan struct{}),
	}
	s.coalescer = NewCoalescer(opts.Delay, opts.Scheduler, s.post)

	return s
}

// post runs on the scheduler's goroutine.
func (s *Synchronizer) post(gen uint64) {
	select {
	case s.fires <- gen:
	case <-s.done:
	}
}

// Run subscribes to the collection and dispatches events until ctx is
// cancelled (nil) or the store closes the stream (ErrSubscriptionClosed).
// Run must not be called more than once.
func (s *Synchronizer) Run(ctx context.Context) error {
	defer close(s.done)

	sub, err := s.store.Subscribe(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("synchronizer: subscribe %q: %w", s.collection, err)
	}
	defer s.coalescer.Stop()

	s.log.Info("synchronizer started")
	events := sub.Events()

	for {
		select {
		case <-ctx.Done():
			s.log.WithField("redraws", s.redraws).Info("synchronizer stopped")
			return nil

		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				if err := sub.Err(); err != nil {
					return fmt.Errorf("synchronizer: %w: %w", ErrSubscriptionClosed, err)
				}
				return fmt.Errorf("synchronizer: %w", ErrSubscriptionClosed)
			}
			s.handle(ev)

		case gen := <-s.fires:
			s.flush(gen)
		}
	}
}

// handle applies one event and re-arms the coalescer.
func (s *Synchronizer) handle(ev domain.ChangeEvent) {
	changed := s.mirror.Apply(ev)

	s.log.WithFields(logrus.Fields{
		"event":   ev.Kind.String(),
		"key":     ev.Key,
		"changed": changed,
		"size":    s.mirror.Len(),
	}).Debug("mirror event applied")

	s.coalescer.Arm()
}

// flush redraws every view from one snapshot if gen is still current.
func (s *Synchronizer) flush(gen uint64) {
	if !s.coalescer.Accept(gen) {
		return
	}

	snapshot := s.mirror.Snapshot()
	for _, r := range s.renderers {
		r.Render(snapshot)
	}
	s.redraws++

	s.log.WithFields(logrus.Fields{
		"records": len(snapshot),
		"redraw":  s.redraws,
	}).Debug("views refreshed")
}

// Mirror exposes the mirror for read-only consumers.
func (s *Synchronizer) Mirror() ports.DeliveryReader {
	return s.mirror
}
