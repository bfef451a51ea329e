package main

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/dvrctl/internal/logging"
	"github.com/danmuck/dvrctl/internal/protocol"
	"github.com/danmuck/dvrctl/internal/transport"
)

// Exit codes kept compatible with the historical tool (sysexits plus 2
// for a device-rejected request).
const (
	exitRequest  = 2
	exitUsage    = 64
	exitNoHost   = 68
	exitIO       = 74
	exitProtocol = 76
)

var (
	flagPort    string
	flagUser    string
	flagConfig  string
	flagRetries uint
)

var rootCmd = &cobra.Command{
	Use:           "dvrctl",
	Short:         "Control DVRIP video recorders over the network",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var infoCmd = &cobra.Command{
	Use:   "info HOST",
	Short: "Print system, storage and activity state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

var timeCmd = &cobra.Command{
	Use:   "time HOST [TIME]",
	Short: "Read the device clock, or set it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTime(args)
	},
}

var keepaliveCmd = &cobra.Command{
	Use:   "keepalive HOST",
	Short: "Log in, ping the device once and report the keepalive period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeepAlive(args[0])
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot HOST",
	Short: "Reboot the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReboot(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "control port or service name")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "username")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "TOML config file")
	rootCmd.PersistentFlags().UintVar(&flagRetries, "retries", 0, "connect attempts beyond the first")
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(timeCmd)
	rootCmd.AddCommand(keepaliveCmd)
	rootCmd.AddCommand(rebootCmd)
}

func main() {
	logging.ConfigureRuntime()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dvrctl: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var dnsErr *net.DNSError
	var addrErr *net.AddrError
	var ioErr *ioError
	switch {
	case errors.As(err, &ioErr):
		return exitIO
	case errors.Is(err, protocol.ErrRequest):
		return exitRequest
	case errors.Is(err, protocol.ErrDecode):
		return exitProtocol
	case errors.As(err, &dnsErr), errors.As(err, &addrErr):
		return exitNoHost
	case errors.Is(err, transport.ErrConnection):
		return exitIO
	default:
		return exitUsage
	}
}
