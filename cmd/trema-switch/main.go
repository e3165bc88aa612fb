// Command trema-switch runs the two-worker OpenFlow 1.3 soft switch:
// a protocol worker speaking the controller channel and a datapath
// worker hosting the flow engine, coupled through switchd's transport.
package main

import (
	"fmt"
	"net"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/trema-go/switch-core/flowengine"
	"github.com/trema-go/switch-core/openflow13"
	"github.com/trema-go/switch-core/switchd"
	"github.com/trema-go/switch-core/util"
)

var cfg = switchd.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "trema-switch",
	Short: "OpenFlow 1.3 soft switch",
	Long: `trema-switch is a soft switch speaking OpenFlow 1.3: it serialises,
parses and validates every wire message and runs a two-worker core in
which a protocol worker talks to the controller and a datapath worker
owns the forwarding tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.LoggingLevel, "logging_level", "l", cfg.LoggingLevel, "debug|info|warn|error|critical")
	flags.BoolVarP(&cfg.Daemonize, "daemonize", "d", cfg.Daemonize, "run in the background")
	flags.StringVarP(&cfg.DatapathID, "datapath_id", "i", cfg.DatapathID, "datapath id, decimal or 0x-prefixed hex")
	flags.Uint32VarP(&cfg.MaxFlowEntries, "max_flow_entries", "m", cfg.MaxFlowEntries, "maximum flow table entries")
	flags.StringVarP(&cfg.ServerIP, "server_ip", "c", cfg.ServerIP, "controller address")
	flags.Uint16VarP(&cfg.ServerPort, "server_port", "p", cfg.ServerPort, "controller port")
	flags.StringVarP(&cfg.SwitchPorts, "switch_ports", "e", cfg.SwitchPorts, "comma-separated <dev>[:<port_no>] list")
	flags.StringVarP(&cfg.LoggingType, "logging_type", "t", cfg.LoggingType, "comma-separated file,syslog,stdout")
}

func configureLogging(cfg switchd.Config) error {
	name := cfg.LoggingLevel
	if name == "critical" {
		// logrus has no "critical"; its closest level is "fatal".
		name = "fatal"
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid logging_level %q: %w", cfg.LoggingLevel, err)
	}
	log.SetLevel(level)

	for _, kind := range strings.Split(cfg.LoggingType, ",") {
		switch strings.TrimSpace(kind) {
		case "stdout", "":
			log.SetOutput(os.Stdout)
		case "file":
			f, err := os.OpenFile(switchd.LogFilePath(cfg, "trema-switch"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			log.SetOutput(f)
		case "syslog":
			log.Warn("syslog logging requested but not available on this platform, falling back to stdout")
			log.SetOutput(os.Stdout)
		}
	}
	return nil
}

// tcpChannel adapts a net.Conn to switchd.ChannelSend.
type tcpChannel struct {
	conn net.Conn
}

func (c *tcpChannel) Send(msg util.Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = c.conn.Write(data)
	return err
}

func run(cfg switchd.Config) error {
	if err := configureLogging(cfg); err != nil {
		return err
	}

	dpid, err := switchd.ParseDatapathID(cfg.DatapathID)
	if err != nil {
		return fmt.Errorf("invalid datapath_id %q: %w", cfg.DatapathID, err)
	}

	engine := flowengine.NewMemEngine(flowengine.Features{
		DatapathID: dpid,
		NumBuffers: cfg.MaxFlowEntries,
		NumTables:  1,
		Capabilities: openflow13.CAP_FLOW_STATS | openflow13.CAP_TABLE_STATS |
			openflow13.CAP_PORT_STATS | openflow13.CAP_GROUP_STATS,
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerIP, cfg.ServerPort)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to controller at %s: %w", addr, err)
	}
	defer conn.Close()

	sw, err := switchd.New(cfg, engine, &tcpChannel{conn: conn})
	if err != nil {
		return err
	}
	sw.Run()
	return nil
}

func main() {
	pflag.CommandLine = rootCmd.Flags()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
