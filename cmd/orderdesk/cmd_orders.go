package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/orderdesk/internal/orderstore"
)

func init() {
	rootCmd.AddCommand(ordersCmd)
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List persisted orders from the master log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		store := orderstore.New(cfg.DataDir, nil)
		orders, err := store.List()
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tSESSION\tITEMS\tTOTAL\tSTATUS")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n",
				o.Timestamp, o.SessionID, len(o.Items), o.Total, o.Status)
		}
		return w.Flush()
	},
}
