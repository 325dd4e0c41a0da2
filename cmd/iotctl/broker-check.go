package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/broker"
)

// brokerCheckCmd represents the broker check command
var brokerCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Connect to the broker with the probe credential",
	Long: `Open and close an MQTT session against the configured broker.

The probe credential comes from probe_username and probe_password. The
connect goes through the broker's auth hook, so a rejected probe usually
means this server denied it.

Exit status is 0 when the broker accepted the session, 1 otherwise.

Example:
  iotctl broker check
  iotctl broker check --url tcp://localhost:1883 --timeout 2s`,
	Run: func(cmd *cobra.Command, args []string) {
		brokerURL, _ := cmd.Flags().GetString("url")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		status, err := checkBroker(cmd.Context(), brokerURL, timeout)
		if err != nil {
			switch {
			case errors.Is(err, broker.ErrRejected):
				fmt.Fprintf(os.Stderr, "Broker rejected the probe credential: %v\n", err)
			case errors.Is(err, broker.ErrUnreachable):
				fmt.Fprintf(os.Stderr, "Broker is unreachable: %v\n", err)
			default:
				fmt.Fprintf(os.Stderr, "Broker check failed: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Printf("Broker %s is up (%s)\n", status.URL, status.Latency.Round(time.Millisecond))
	},
}

func init() {
	brokerCmd.AddCommand(brokerCheckCmd)

	brokerCheckCmd.Flags().String("url", "", "broker URL (defaults to the configured one)")
	brokerCheckCmd.Flags().Duration("timeout", 5*time.Second, "connect timeout")
}

func checkBroker(ctx context.Context, brokerURL string, timeout time.Duration) (*broker.Status, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if brokerURL == "" {
		brokerURL = cfg.EffectiveBrokerURL()
	}
	if cfg.ProbeUsername == "" {
		return nil, errors.New("probe_username is not set")
	}

	return broker.NewProbe(brokerURL, cfg.ProbeUsername, cfg.ProbePassword, timeout).Check(ctx)
}
