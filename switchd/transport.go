// Package switchd implements the two-worker soft-switch core: a
// protocol worker that owns the controller channel and a datapath
// worker that owns the flow engine, coupled through a bounded
// FIFO-plus-eventfd transport in this file.
package switchd

import (
	"encoding/binary"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// envelopeTag distinguishes the control frame a worker posts at
// startup from the upcall-shaped payloads that follow it.
type envelopeTag uint8

const (
	tagPacketIn envelopeTag = iota
	tagFlowRemoved
	tagPortStatus
	tagDatapathReady
	tagControllerFrame
)

// envelope is one queue element crossing the worker boundary.
type envelope struct {
	tag     envelopeTag
	payload interface{}
}

const defaultQueueDepth = 256

var errQueueFull = errors.New("switchd: transport queue full")

// direction is one bounded FIFO plus the eventfd its consumer blocks
// on. Producers never block: a full queue rejects the message with
// errQueueFull. PostUpcall drops any upcall kind (PacketIn, FlowRemoved
// or PortStatus) this way; PostToDatapath returns the error to its
// caller.
type direction struct {
	mu        sync.Mutex
	queue     []envelope
	depth     int
	eventFD   int
	sendCount uint64
}

func newDirection(depth int) (*direction, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &direction{depth: depth, eventFD: fd}, nil
}

// post appends msg to the queue and bumps the eventfd counter so the
// consumer's loop wakes up. Returns errQueueFull if the bounded queue
// is already at capacity; the caller decides whether that is fatal.
func (d *direction) post(msg envelope) error {
	d.mu.Lock()
	if len(d.queue) >= d.depth {
		d.mu.Unlock()
		return errQueueFull
	}
	d.queue = append(d.queue, msg)
	d.sendCount++
	d.mu.Unlock()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(d.eventFD, buf[:])
		if err == nil {
			return nil
		}
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			continue
		}
		log.WithError(err).Error("switchd: eventfd write failed")
		return err
	}
}

// drain reads (and clears) the eventfd counter and returns every
// envelope queued since the last drain. It never blocks; the caller's
// event loop is expected to have already observed the fd as readable.
func (d *direction) drain() []envelope {
	var buf [8]byte
	for {
		_, err := unix.Read(d.eventFD, buf[:])
		if err == nil {
			break
		}
		if errors.Is(err, unix.EAGAIN) {
			return nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		log.WithError(err).Error("switchd: eventfd read failed")
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.queue
	d.queue = nil
	return out
}

func (d *direction) close() {
	unix.Close(d.eventFD)
}

// Transport is the pair of bounded FIFOs linking the protocol and
// datapath workers, each direction with its own eventfd wakeup.
type Transport struct {
	toDatapath *direction
	toProtocol *direction
}

// NewTransport allocates both directions with the given per-direction
// queue depth (0 selects defaultQueueDepth).
func NewTransport(depth int) (*Transport, error) {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	toDatapath, err := newDirection(depth)
	if err != nil {
		return nil, err
	}
	toProtocol, err := newDirection(depth)
	if err != nil {
		toDatapath.close()
		return nil, err
	}
	return &Transport{toDatapath: toDatapath, toProtocol: toProtocol}, nil
}

// PostToDatapath enqueues a controller frame for the datapath worker.
func (t *Transport) PostToDatapath(payload interface{}) error {
	return t.toDatapath.post(envelope{tag: tagControllerFrame, payload: payload})
}

// PostUpcall enqueues an asynchronous engine event for the protocol
// worker. A full queue drops the message and logs a warning; the
// caller is never blocked or told.
func (t *Transport) PostUpcall(tag envelopeTag, payload interface{}) {
	if err := t.toProtocol.post(envelope{tag: tag, payload: payload}); err != nil {
		log.WithError(err).Warn("switchd: dropping upcall, queue full")
	}
}

// PostDatapathReady posts the zero-length control frame that tells
// the protocol worker the engine is up and the controller channel can
// be opened.
func (t *Transport) PostDatapathReady() error {
	return t.toProtocol.post(envelope{tag: tagDatapathReady})
}

// DatapathFD returns the fd the datapath worker's loop should poll for
// readability to learn new controller frames are queued.
func (t *Transport) DatapathFD() int { return t.toDatapath.eventFD }

// ProtocolFD returns the fd the protocol worker's loop should poll for
// readability to learn new upcalls (or the ready frame) are queued.
func (t *Transport) ProtocolFD() int { return t.toProtocol.eventFD }

// DrainToDatapath returns every controller frame queued since the
// last drain; call only after DatapathFD was observed readable.
func (t *Transport) DrainToDatapath() []envelope { return t.toDatapath.drain() }

// DrainToProtocol returns every upcall (and possibly the ready frame)
// queued since the last drain; call only after ProtocolFD was
// observed readable.
func (t *Transport) DrainToProtocol() []envelope { return t.toProtocol.drain() }

// Close releases both eventfds. Not safe to call while either worker
// loop is still polling them.
func (t *Transport) Close() {
	t.toDatapath.close()
	t.toProtocol.close()
}
