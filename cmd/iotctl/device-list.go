package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iotbase/iot-auth/pkg/model"
	gormstore "github.com/iotbase/iot-auth/pkg/server/store/gorm"
)

// deviceListCmd represents the device list command
var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the devices of a company",
	Long: `List the devices of a company ordered by name.

Example:
  iotctl device list --company 1`,
	Run: func(cmd *cobra.Command, args []string) {
		companyID, _ := cmd.Flags().GetInt64("company")

		devices, err := listDevices(cmd.Context(), companyID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list devices: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tUID\tSUPERUSER")
		for _, d := range devices {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", d.ID, d.Name, d.UID, d.IsSuperuser)
		}
		_ = w.Flush()
	},
}

func init() {
	deviceCmd.AddCommand(deviceListCmd)

	deviceListCmd.Flags().Int64("company", 0, "company ID")
	_ = deviceListCmd.MarkFlagRequired("company")
}

func listDevices(ctx context.Context, companyID int64) ([]model.Device, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	database, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}
	return gormstore.NewDevicesStore(database).ListDevices(ctx, companyID)
}
