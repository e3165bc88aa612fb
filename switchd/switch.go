package switchd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/trema-go/switch-core/flowengine"
)

// Config is the switch binary's full CLI-bound configuration surface.
type Config struct {
	LoggingLevel   string
	Daemonize      bool
	DatapathID     string
	MaxFlowEntries uint32
	ServerIP       string
	ServerPort     uint16
	SwitchPorts    string
	LoggingType    string
	TremaHome      string
	QueueDepth     int
}

// DefaultConfig returns the documented CLI defaults.
func DefaultConfig() Config {
	return Config{
		LoggingLevel:   "info",
		DatapathID:     "0x1",
		MaxFlowEntries: 255,
		ServerIP:       "127.0.0.1",
		ServerPort:     6653,
		LoggingType:    "stdout",
		QueueDepth:     defaultQueueDepth,
	}
}

// ParseDatapathID accepts both decimal and 0x-prefixed hex, per the
// CLI's -i/--datapath_id contract.
func ParseDatapathID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	return strconv.ParseUint(s, base, 64)
}

// tremaHome resolves $TREMA_HOME, defaulting to /tmp when unset.
func tremaHome(cfg Config) string {
	if cfg.TremaHome != "" {
		return cfg.TremaHome
	}
	if v := os.Getenv("TREMA_HOME"); v != "" {
		return v
	}
	return "/tmp"
}

// PidFilePath returns $TREMA_HOME/tmp/pid/<progname>.<datapath_id>.pid.
func PidFilePath(cfg Config, progname string) string {
	dpid, err := ParseDatapathID(cfg.DatapathID)
	if err != nil {
		dpid = 0
	}
	return filepath.Join(tremaHome(cfg), "tmp", "pid", fmt.Sprintf("%s.%d.pid", progname, dpid))
}

// LogFilePath returns $TREMA_HOME/tmp/log/<progname>.<datapath_id>.log.
func LogFilePath(cfg Config, progname string) string {
	dpid, err := ParseDatapathID(cfg.DatapathID)
	if err != nil {
		dpid = 0
	}
	return filepath.Join(tremaHome(cfg), "tmp", "log", fmt.Sprintf("%s.%d.log", progname, dpid))
}

// Switch wires a flow engine and a controller channel together
// through a Transport and the two worker loops.
type Switch struct {
	Config    Config
	Engine    flowengine.Engine
	Transport *Transport
	Protocol  *ProtocolWorker
	Datapath  *DatapathWorker
	stop      chan struct{}
}

// New builds a Switch ready to Run, given the engine and the channel
// the protocol worker sends OF messages on.
func New(cfg Config, engine flowengine.Engine, channel ChannelSend) (*Switch, error) {
	tr, err := NewTransport(cfg.QueueDepth)
	if err != nil {
		return nil, fmt.Errorf("switchd: failed to allocate transport: %w", err)
	}
	return &Switch{
		Config:    cfg,
		Engine:    engine,
		Transport: tr,
		Protocol:  NewProtocolWorker(channel, tr, engine),
		Datapath:  NewDatapathWorker(engine, tr, uint16(cfg.MaxFlowEntries)),
		stop:      make(chan struct{}),
	}, nil
}

// Run starts both worker loops on their own goroutine and installs the
// switch's signal handlers: SIGINT/SIGTERM stop both workers, close the
// transport and return (no pid file is written or removed here);
// SIGUSR1/SIGUSR2 are logged only and produce no table dump.
func (s *Switch) Run() {
	sig := make(chan os.Signal, 1)
	signal.Ignore(syscall.SIGPIPE)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	go s.Datapath.Run(s.stop)
	go s.Protocol.Run(s.stop)

	for {
		switch sg := <-sig; sg {
		case syscall.SIGINT, syscall.SIGTERM:
			log.Info("switchd: shutting down")
			close(s.stop)
			s.Transport.Close()
			return
		case syscall.SIGUSR1:
			log.Info("switchd: flow table dump requested")
		case syscall.SIGUSR2:
			log.Info("switchd: group table dump requested")
		}
	}
}
