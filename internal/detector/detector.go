// Package detector watches the system clipboard and records every new
// text it sees into the history store.
//
// One Detector runs a single polling loop per process:
//
//	Idle → Sample → Compare → {Unchanged | Changed → Persist} → Idle
//
// The Snapshot it compares against is shared with WriteBack, so text the
// process puts on the clipboard itself is never captured a second time.
package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HendryAvila/clipvault/internal/clip"
	"github.com/HendryAvila/clipvault/internal/clipboard"
	"github.com/HendryAvila/clipvault/internal/foreground"
)

// DefaultInterval is the pause between two polls.
const DefaultInterval = 500 * time.Millisecond

// previewLen is how much of a clip goes into log lines.
const previewLen = 50

// Recorder persists records. *history.Store satisfies it.
type Recorder interface {
	Upsert(rec clip.Record) error
}

// Notifier is told after a record was persisted.
type Notifier interface {
	ClipsUpdated(ctx context.Context, rec clip.Record) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, rec clip.Record) error

// ClipsUpdated calls f.
func (f NotifierFunc) ClipsUpdated(ctx context.Context, rec clip.Record) error {
	return f(ctx, rec)
}

// Outcome is the result of one poll cycle.
type Outcome int

const (
	// Skipped: no text, or blank text, on the clipboard.
	Skipped Outcome = iota
	// Unchanged: the clipboard still holds the snapshot text.
	Unchanged
	// Captured: new text was persisted.
	Captured
	// Failed: reading or persisting failed; the loop keeps going.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Unchanged:
		return "unchanged"
	case Captured:
		return "captured"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configures a Detector. Clipboard and Store are required.
type Options struct {
	Clipboard clipboard.Clipboard
	Store     Recorder
	Resolver  foreground.Resolver
	Notifier  Notifier
	Snapshot  *Snapshot
	Interval  time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// Stats are cumulative counters since the Detector was created.
type Stats struct {
	Polls       int64 `json:"polls"`
	Captures    int64 `json:"captures"`
	Unchanged   int64 `json:"unchanged"`
	Skipped     int64 `json:"skipped"`
	Failures    int64 `json:"failures"`
	WriteBacks  int64 `json:"write_backs"`
	LastCapture int64 `json:"last_capture,omitempty"` // unix milliseconds
}

// Detector samples the clipboard and records changes.
type Detector struct {
	clip     clipboard.Clipboard
	store    Recorder
	resolver foreground.Resolver
	notifier Notifier
	snap     *Snapshot
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	// clipMu serializes clipboard access with the snapshot claim. It is
	// never held across store or resolver calls.
	clipMu sync.Mutex

	polls, captures, unchanged, skipped, failures, writeBacks atomic.Int64
	lastCapture                                               atomic.Int64

	errMu       sync.Mutex
	lastReadErr string
}

// New validates opts and returns a Detector.
func New(opts Options) (*Detector, error) {
	if opts.Clipboard == nil {
		return nil, errors.New("detector: clipboard is required")
	}
	if opts.Store == nil {
		return nil, errors.New("detector: store is required")
	}
	d := &Detector{
		clip:     opts.Clipboard,
		store:    opts.Store,
		resolver: opts.Resolver,
		notifier: opts.Notifier,
		snap:     opts.Snapshot,
		interval: opts.Interval,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if d.resolver == nil {
		d.resolver = foreground.Unknown{}
	}
	if d.snap == nil {
		d.snap = &Snapshot{}
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// Snapshot returns the snapshot shared by polling and WriteBack.
func (d *Detector) Snapshot() *Snapshot {
	return d.snap
}

// Seed initializes the snapshot from the current clipboard so text that
// was already there at startup is not captured as a new copy.
func (d *Detector) Seed() {
	text, err := d.clip.ReadText()
	if err != nil {
		if !errors.Is(err, clipboard.ErrNoText) {
			d.log.Warn("initial clipboard read failed", "err", err)
		}
		return
	}
	if clip.IsBlank(text) {
		return
	}
	d.snap.Set(text)
	d.log.Debug("snapshot seeded", "preview", clip.Preview(text, previewLen))
}

// Poll runs one detection cycle. It never returns an error: failures are
// logged and reported as Failed so the loop can continue.
func (d *Detector) Poll(ctx context.Context) Outcome {
	d.polls.Add(1)
	out := d.poll(ctx)
	switch out {
	case Captured:
		d.captures.Add(1)
	case Unchanged:
		d.unchanged.Add(1)
	case Skipped:
		d.skipped.Add(1)
	case Failed:
		d.failures.Add(1)
	}
	return out
}

func (d *Detector) poll(ctx context.Context) Outcome {
	c, out := d.sample()
	if out != Captured {
		return out
	}

	rec := d.build(ctx, c.text)
	if err := d.store.Upsert(rec); err != nil {
		c.rollback()
		d.log.Error("capture not persisted", "identity", rec.Identity, "err", err)
		return Failed
	}

	d.lastCapture.Store(rec.CapturedAt)
	d.log.Debug("captured clip",
		"identity", rec.Identity,
		"source", rec.Source,
		"preview", clip.Preview(c.text, previewLen),
	)
	d.notify(ctx, rec)
	return Captured
}

// sample reads the clipboard and claims new text in the snapshot. It
// reports Captured when a claim was made and persisting should follow.
func (d *Detector) sample() (claim, Outcome) {
	d.clipMu.Lock()
	defer d.clipMu.Unlock()

	text, err := d.clip.ReadText()
	if errors.Is(err, clipboard.ErrNoText) {
		d.clearReadErr()
		return claim{}, Skipped
	}
	if err != nil {
		d.logReadErr(err)
		return claim{}, Failed
	}
	d.clearReadErr()
	if clip.IsBlank(text) {
		return claim{}, Skipped
	}

	c, changed := d.snap.claim(text)
	if !changed {
		return claim{}, Unchanged
	}
	return c, Captured
}

// WriteBack puts text on the system clipboard and records it, claiming
// the snapshot first so the polling loop sees the write as unchanged.
// Blank text, or text equal to the snapshot, is a no-op.
func (d *Detector) WriteBack(ctx context.Context, text string) error {
	if clip.IsBlank(text) {
		return nil
	}
	if written, err := d.claimAndWrite(text); err != nil || !written {
		return err
	}

	rec := d.build(ctx, text)
	if err := d.store.Upsert(rec); err != nil {
		return fmt.Errorf("detector: write back: %w", err)
	}

	d.writeBacks.Add(1)
	d.lastCapture.Store(rec.CapturedAt)
	d.log.Debug("wrote back clip", "identity", rec.Identity, "source", rec.Source)
	d.notify(ctx, rec)
	return nil
}

// claimAndWrite claims text and writes it to the clipboard as one step
// with respect to sample, so a poll can never read the old clipboard
// after the claim and capture it again.
func (d *Detector) claimAndWrite(text string) (bool, error) {
	d.clipMu.Lock()
	defer d.clipMu.Unlock()

	c, changed := d.snap.claim(text)
	if !changed {
		return false, nil
	}
	if err := d.clip.WriteText(text); err != nil {
		c.rollback()
		return false, fmt.Errorf("detector: write back: %w", err)
	}
	return true, nil
}

// Run polls until ctx is cancelled.
func (d *Detector) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("clipboard detector started", "interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("clipboard detector stopped")
			return
		case <-ticker.C:
			d.Poll(ctx)
		}
	}
}

// Handle controls a detector loop started with Start.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches Run in its own goroutine. It returns immediately.
func (d *Detector) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		d.Run(ctx)
	}()
	return h
}

// Stop cancels the loop and waits for it to exit. Safe to call twice.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stats returns a copy of the counters.
func (d *Detector) Stats() Stats {
	return Stats{
		Polls:       d.polls.Load(),
		Captures:    d.captures.Load(),
		Unchanged:   d.unchanged.Load(),
		Skipped:     d.skipped.Load(),
		Failures:    d.failures.Load(),
		WriteBacks:  d.writeBacks.Load(),
		LastCapture: d.lastCapture.Load(),
	}
}

// build resolves the source best-effort and stamps the record.
func (d *Detector) build(ctx context.Context, text string) clip.Record {
	source, err := d.resolver.CurrentAppName(ctx)
	if err != nil {
		d.log.Debug("foreground app unknown", "err", err)
		source = ""
	}
	return clip.BuildAt(text, source, d.now())
}

func (d *Detector) notify(ctx context.Context, rec clip.Record) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.ClipsUpdated(ctx, rec); err != nil {
		d.log.Warn("change notification failed", "identity", rec.Identity, "err", err)
	}
}

// logReadErr logs a read failure once per distinct message, so a missing
// clipboard tool does not flood the log every interval.
func (d *Detector) logReadErr(err error) {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	if msg := err.Error(); msg != d.lastReadErr {
		d.lastReadErr = msg
		d.log.Warn("clipboard read failed", "err", err)
	}
}

func (d *Detector) clearReadErr() {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	d.lastReadErr = ""
}
