package sobel

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/dudk/sobel/metric"
)

// vacant marks that no worker owns a frame.
const vacant = -1

// dispatcher is the state shared by workers of a single run. All fields
// except buffers and join are guarded by mu. Buffers are written without
// the lock during compute: bands of one frame never overlap.
type dispatcher struct {
	ctx          context.Context
	pool         string
	source       Source
	sink         Sink
	converter    Converter
	log          Logger
	stallTimeout time.Duration

	mu   sync.Mutex
	cond *sync.Cond

	owner   int       // slot of frame owner or vacant
	seq     uint64    // sequence of the last published frame
	claimed int       // helper bands handed out for seq
	bands   []RowBand // split of the frame in flight, bands[0] is owner's
	halted  bool      // no more frames will be published
	err     error     // cause of the halt

	gray    *Plane         // intensity plane of the frame in flight
	master  *Plane         // owner band and merge result
	scratch *Plane         // helper bands
	join    sync.WaitGroup // helpers of the frame in flight
}

func newDispatcher(ctx context.Context, p *Pool) *dispatcher {
	d := &dispatcher{
		ctx:          ctx,
		pool:         p.String(),
		source:       p.source,
		sink:         p.sink,
		converter:    p.converter,
		log:          p.log,
		stallTimeout: p.stallTimeout,
		owner:        vacant,
		bands:        make([]RowBand, p.workers),
		gray:         &Plane{},
		master:       &Plane{},
		scratch:      &Plane{},
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// stop halts the dispatcher with provided cause and wakes all parked
// workers. Only the first cause is kept.
func (d *dispatcher) stop(cause error) {
	d.mu.Lock()
	d.halt(cause)
	d.mu.Unlock()
}

// halt must be called with mu held.
func (d *dispatcher) halt(cause error) {
	if !d.halted {
		d.halted = true
		d.err = cause
	}
	d.cond.Broadcast()
}

func (d *dispatcher) cause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *dispatcher) frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// worker is a single long-lived goroutine of the pool.
type worker struct {
	*dispatcher
	slot   int
	role   role
	joined uint64 // sequence of the last frame the worker owned or helped
	meter  *metric.Meter
}

// run is the worker cycle. Every iteration the worker contends for the
// dispatch lock and then acts as owner or helper of a single frame.
func (w *worker) run() error {
	for {
		w.role = contending
		// A worker that lost the race blocks on the lock and then parks on
		// the condition variable, it never retries TryLock.
		if !w.mu.TryLock() {
			w.mu.Lock()
		}
		w.role = w.elect()
		switch w.role {
		case owning:
			if err := w.own(); err != nil {
				return err
			}
		case helping:
			w.help()
		case stopped:
			w.mu.Unlock()
			w.log.Debug(fmt.Sprintf("%v: worker %d stopped", w.pool, w.slot))
			return nil
		}
	}
}

// elect decides the worker role for the next cycle. It must be called with
// mu held and returns with mu held. Conditions are re-checked after every
// wake up, so spurious and late wake ups are harmless. Pending bands are
// checked before halt: owner must not wait for a helper that left.
func (w *worker) elect() role {
	for {
		switch {
		case w.seq > w.joined && w.claimed < len(w.bands)-1:
			return helping
		case w.halted:
			return stopped
		case w.owner == vacant:
			return owning
		}
		w.cond.Wait()
	}
}

// own executes owner path for a single frame. It must be called with mu
// held and returns with mu released.
func (w *worker) own() error {
	w.owner = w.slot
	frame, err := w.source.Next(w.ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			w.log.Debug(fmt.Sprintf("%v: end of stream after %d frames", w.pool, w.seq))
			w.owner = vacant
			w.halt(nil)
			w.mu.Unlock()
			return nil
		}
		err = errors.Wrap(err, "pull frame")
		w.release(err)
		return err
	}
	if err = w.publish(frame); err != nil {
		w.release(err)
		return err
	}
	band, in, out := w.bands[0], w.gray, w.master
	w.mu.Unlock()

	Process(band, in, out)
	w.meter.Band(int64(band.Len()))
	w.await()

	w.mu.Lock()
	for _, b := range w.bands[1:] {
		copyBand(b, w.scratch, w.master)
	}
	if err = w.sink.Present(w.ctx, w.master); err != nil {
		err = errors.Wrap(err, "present edges")
		w.release(err)
		return err
	}
	w.meter.Frame()
	w.release(nil)
	return nil
}

// publish converts the frame and announces its split to helpers. It must
// be called with mu held.
func (w *worker) publish(frame *Frame) error {
	if err := w.converter.Convert(frame, w.gray); err != nil {
		return errors.Wrap(err, "convert frame")
	}
	rows, cols := w.gray.Rows, w.gray.Cols
	if rows < 3 || cols < 3 {
		return errors.Wrapf(ErrMalformedFrame, "frame %dx%d is smaller than kernel", rows, cols)
	}
	w.master.resize(rows-2, cols-2)
	w.scratch.resize(rows-2, cols-2)
	if b := w.bands[len(w.bands)-1]; b.End != rows-1 {
		w.bands = Split(rows, len(w.bands))
	}

	w.seq++
	w.joined = w.seq
	w.claimed = 0
	w.join.Add(len(w.bands) - 1)
	w.log.Debug(fmt.Sprintf("%v: frame %d %dx%d owned by worker %d", w.pool, w.seq, rows, cols, w.slot))
	w.cond.Broadcast()
	return nil
}

// release gives up ownership and wakes parked workers. Dispatcher is
// halted if err is not nil. It must be called with mu held and releases it.
func (w *worker) release(err error) {
	w.owner = vacant
	if err != nil {
		w.halt(err)
	} else {
		w.cond.Broadcast()
	}
	w.mu.Unlock()
}

// help executes helper path for a single frame. It must be called with mu
// held and returns with mu released.
func (w *worker) help() {
	w.claimed++
	band, in, out := w.bands[w.claimed], w.gray, w.scratch
	w.joined = w.seq
	w.mu.Unlock()

	Process(band, in, out)
	w.meter.Band(int64(band.Len()))
	w.join.Done()
}

// await blocks until every helper of the frame in flight arrived at the
// join point. If stall timeout is set, a warning is logged every time it
// elapses.
func (w *worker) await() {
	if w.stallTimeout <= 0 {
		w.join.Wait()
		return
	}
	done := make(chan struct{})
	go func() {
		w.join.Wait()
		close(done)
	}()
	t := time.NewTimer(w.stallTimeout)
	defer t.Stop()
	for waited := w.stallTimeout; ; waited += w.stallTimeout {
		select {
		case <-done:
			return
		case <-t.C:
			w.log.Warn(fmt.Sprintf("%v: worker %d waits for helpers for %v", w.pool, w.slot, waited))
			t.Reset(w.stallTimeout)
		}
	}
}
