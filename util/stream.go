package util

import (
	"bytes"
	"encoding/binary"
	"net"
	"strings"

	log "github.com/sirupsen/logrus"
)

const numParserGoroutines = 25

type BufferPool struct {
	Empty chan *bytes.Buffer
}

func NewBufferPool() *BufferPool {
	m := new(BufferPool)
	m.Empty = make(chan *bytes.Buffer, 50)

	for i := 0; i < 50; i++ {
		m.Empty <- bytes.NewBuffer(make([]byte, 0, 2048))
	}
	return m
}

// Parser turns a raw OpenFlow frame into a typed Message.
type Parser interface {
	Parse(b []byte) (message Message, err error)
}

type streamWorker struct {
	Full chan *bytes.Buffer
}

func (w *streamWorker) parse(stopCh chan bool, parser Parser, inbound chan Message, empty chan *bytes.Buffer) {
	for {
		select {
		case b := <-w.Full:
			msg, err := parser.Parse(b.Bytes())
			if err != nil {
				log.WithError(err).Error("Failed to parse received message")
			} else {
				inbound <- msg
			}
			b.Reset()
			empty <- b
		case <-stopCh:
			return
		}
	}
}

// MessageStream wraps a net.Conn, splitting the OpenFlow byte stream
// into discrete messages and fanning decode work across a worker pool
// keyed by xid so that in-order delivery of a single transaction is
// preserved while unrelated messages decode concurrently.
type MessageStream struct {
	conn net.Conn
	pool *BufferPool
	// Message parser
	parser Parser
	// Channel to shut down the parser goroutines
	parserShutdown chan bool
	// OpenFlow Version
	Version uint8
	// Channel on which to publish connection errors
	Error chan error
	// Channel on which to publish inbound messages
	Inbound chan Message
	// Channel on which to receive outbound messages
	Outbound chan Message
	// Channel on which to receive a shutdown command
	Shutdown chan bool
	// Worker to parse the message received from the connection
	workers []streamWorker
}

// NewMessageStream returns a MessageStream parsing OpenFlow messages
// read from conn with parser.
func NewMessageStream(conn net.Conn, parser Parser) *MessageStream {
	m := &MessageStream{
		conn:           conn,
		pool:           NewBufferPool(),
		parser:         parser,
		parserShutdown: make(chan bool, 1),
		Version:        0,
		Error:          make(chan error, 1),
		Inbound:        make(chan Message, 1),
		Outbound:       make(chan Message, 1),
		Shutdown:       make(chan bool, 1),
		workers:        make([]streamWorker, numParserGoroutines),
	}

	for i := 0; i < numParserGoroutines; i++ {
		worker := streamWorker{
			Full: make(chan *bytes.Buffer),
		}
		m.workers[i] = worker
		go worker.parse(m.parserShutdown, m.parser, m.Inbound, m.pool.Empty)
	}
	go m.outbound()
	go m.inbound()

	return m
}

func (m *MessageStream) GetAddr() net.Addr {
	return m.conn.RemoteAddr()
}

// Listen for a Shutdown signal or Outbound messages.
func (m *MessageStream) outbound() {
	for {
		select {
		case <-m.Shutdown:
			log.Info("Closing OpenFlow message stream")
			m.conn.Close()
			close(m.parserShutdown)
			return
		case msg := <-m.Outbound:
			data, err := msg.MarshalBinary()
			if err != nil {
				log.WithError(err).Error("Failed to marshal outbound message")
				continue
			}
			if _, err := m.conn.Write(data); err != nil {
				log.WithError(err).Error("Outbound write error")
				m.Error <- err
				m.Shutdown <- true
				return
			}
			log.Debugf("Sent %d bytes", len(data))
		}
	}
}

// Handle inbound messages: reassemble the OpenFlow header-length-prefixed
// stream into discrete frames and dispatch each to a parser worker.
func (m *MessageStream) inbound() {
	msgLen := 0
	hdr := 0
	hdrBuf := make([]byte, 4)

	tmpBuf := make([]byte, 2048)
	buf := <-m.pool.Empty
	for {
		n, err := m.conn.Read(tmpBuf)
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return
			}
			log.WithError(err).Error("Inbound read error")
			m.Error <- err
			m.Shutdown <- true
			return
		}

		for i := 0; i < n; i++ {
			if hdr < 4 {
				hdrBuf[hdr] = tmpBuf[i]
				buf.WriteByte(tmpBuf[i])
				hdr++
				if hdr >= 4 {
					// Header length field tells us how many bytes remain.
					msgLen = int(binary.BigEndian.Uint16(hdrBuf[2:])) - 4
				}
				continue
			}
			if msgLen > 0 {
				buf.WriteByte(tmpBuf[i])
				msgLen--
				if msgLen == 0 {
					hdr = 0
					m.dispatchMessage(buf)
					buf = <-m.pool.Empty
				}
				continue
			}
		}
	}
}

// dispatchMessage routes a complete frame to the worker keyed by xid so
// that re-parses of the same transaction never race each other.
func (m *MessageStream) dispatchMessage(b *bytes.Buffer) {
	msgBytes := b.Bytes()
	if len(msgBytes) < 8 {
		log.Error("Buffer too small to contain an OpenFlow header")
		return
	}
	xid := binary.BigEndian.Uint32(msgBytes[4:])
	workerKey := int(xid % uint32(len(m.workers)))
	m.workers[workerKey].Full <- b
}
