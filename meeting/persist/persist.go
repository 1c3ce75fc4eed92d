package persist

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/kvstore"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/internal/utils"
	"github.com/imtaco/meet-embed/meeting"
)

// entry is one key of a write sequence; a nil value means absent.
type entry struct {
	key   string
	value *string
}

func formatInt(v *int64) *string {
	if v == nil {
		return nil
	}
	return utils.Ptr(strconv.FormatInt(*v, 10))
}

// bitrateEntries and textEntries follow the order of meeting.BitrateKeys and meeting.TextKeys.
func bitrateEntries(p meeting.CustomParams) []entry {
	return []entry{
		{meeting.KeyMinBitrate, formatInt(p.MinBitrate)},
		{meeting.KeyStdBitrate, formatInt(p.StdBitrate)},
		{meeting.KeyMaxBitrate, formatInt(p.MaxBitrate)},
	}
}

func textEntries(p meeting.CustomParams) []entry {
	return []entry{
		{meeting.KeyMeetingTitle, p.MeetingTitle},
		{meeting.KeyWaitingText, p.WaitingAreaText},
		{meeting.KeyLobyTitle, p.LobyTitle},
		{meeting.KeyLobyDescription, p.LobyDescription},
	}
}

// Result reports the outcome of both write sequences.
type Result struct {
	Written []string
	Cleared []string
	// Err aggregates one error per failed key; see multierr.Errors.
	Err error
}

// Pending is the handle of a detached Persist run.
type Pending struct {
	done   chan struct{}
	result Result
}

func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until both sequences finished.
func (p *Pending) Wait() Result {
	<-p.done
	return p.result
}

type Persister struct {
	store  kvstore.Store
	cfg    *Config
	logger *log.Logger
}

func New(store kvstore.Store, cfg *Config, logger *log.Logger) *Persister {
	if cfg == nil {
		cfg = &Config{AbsentPolicy: AbsentClear}
	}
	return &Persister{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Persist starts the bitrate and text write sequences and returns at once.
// The writes outlive ctx cancellation; only the configured timeout bounds them.
// Failures are logged and reported on the returned handle, never to the caller.
func (p *Persister) Persist(ctx context.Context, params meeting.CustomParams) *Pending {
	pending := &Pending{done: make(chan struct{})}
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(pending.done)

		var (
			g   errgroup.Group
			mu  sync.Mutex
			res Result
		)
		for _, seq := range [][]entry{bitrateEntries(params), textEntries(params)} {
			g.Go(func() error {
				written, cleared, err := p.runSequence(ctx, seq)
				mu.Lock()
				defer mu.Unlock()
				res.Written = append(res.Written, written...)
				res.Cleared = append(res.Cleared, cleared...)
				res.Err = multierr.Append(res.Err, err)
				return nil
			})
		}
		_ = g.Wait()

		if res.Err != nil {
			p.logger.Error("persist custom params incomplete",
				log.Strings("written", res.Written),
				log.Int("failed", len(multierr.Errors(res.Err))),
				log.Error(res.Err))
		} else {
			p.logger.Debug("persist custom params done",
				log.Strings("written", res.Written),
				log.Strings("cleared", res.Cleared))
		}
		pending.result = res
	}()

	return pending
}

// runSequence attempts every key in order; a failed key does not stop the rest.
// Every key is touched on each run, so nothing from an earlier mount survives.
func (p *Persister) runSequence(ctx context.Context, seq []entry) (written, cleared []string, err error) {
	for _, e := range seq {
		value, ok := p.resolve(e)
		if !ok {
			if rerr := p.clear(ctx, e.key); rerr != nil {
				err = multierr.Append(err, rerr)
				continue
			}
			cleared = append(cleared, e.key)
			continue
		}
		if werr := p.write(ctx, e.key, value); werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		written = append(written, e.key)
	}
	return written, cleared, err
}

func (p *Persister) resolve(e entry) (string, bool) {
	if e.value != nil {
		return *e.value, true
	}
	if p.cfg.AbsentPolicy == AbsentPlaceholder {
		return Placeholder, true
	}
	return "", false
}

func (p *Persister) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, p.cfg.Timeout)
	}
	return ctx, func() {}
}

func (p *Persister) write(ctx context.Context, key, value string) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	attrs := metric.WithAttributes(attribute.String("key", key))
	if err := p.store.SetItem(ctx, key, value); err != nil {
		failuresTotal.Add(ctx, 1, attrs)
		p.logger.Error("failed to persist key", log.String("key", key), log.Error(err))
		return errors.Wrapf(meeting.ErrPersistFailed, err, "set %s", key)
	}
	writesTotal.Add(ctx, 1, attrs)
	return nil
}

func (p *Persister) clear(ctx context.Context, key string) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	attrs := metric.WithAttributes(attribute.String("key", key))
	if err := p.store.RemoveItem(ctx, key); err != nil {
		failuresTotal.Add(ctx, 1, attrs)
		p.logger.Error("failed to clear key", log.String("key", key), log.Error(err))
		return errors.Wrapf(meeting.ErrPersistFailed, err, "remove %s", key)
	}
	clearedTotal.Add(ctx, 1, attrs)
	return nil
}
