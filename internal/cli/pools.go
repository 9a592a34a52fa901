package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apihttp "github.com/Flarenzy/wg-fleet/internal/http"
)

type poolList []apihttp.PoolResponse

func (l poolList) table() table {
	t := table{headers: []string{"ID", "INTERFACE", "SUBNET", "RANGE", "ACTIVE", "USED", "FREE", "USAGE"}}
	for _, p := range l {
		t.rows = append(t.rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Interface,
			p.Subnet,
			p.Start + "-" + p.End,
			strconv.FormatBool(p.Active),
			strconv.FormatUint(p.Allocated, 10),
			strconv.FormatUint(p.Available, 10),
			fmt.Sprintf("%.1f%%", p.Percent),
		})
	}
	return t
}

type nextAddressView apihttp.NextAddressResponse

func (n nextAddressView) table() table {
	return table{
		headers: []string{"POOL", "ADDRESS"},
		rows:    [][]string{{strconv.FormatInt(n.PoolID, 10), n.Address}},
	}
}

func newPoolsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Inspect address pools",
	}
	cmd.AddCommand(newPoolsListCmd(opts), newPoolsNextCmd(opts))
	return cmd
}

func newPoolsListCmd(opts *options) *cobra.Command {
	var iface string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List address pools with usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := opts.client.ListPools(cmd.Context(), iface)
			if err != nil {
				return fmt.Errorf("failed to list pools: %w", err)
			}
			return opts.format(cmd.OutOrStdout(), poolList(pools))
		},
	}
	cmd.Flags().StringVarP(&iface, "interface", "i", "", "only pools bound to this interface")
	return cmd
}

func newPoolsNextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next <interface>",
		Short: "Show the next free address of an interface without reserving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := opts.client.NextAddress(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to compute next address: %w", err)
			}
			return opts.format(cmd.OutOrStdout(), nextAddressView(next))
		},
	}
}
