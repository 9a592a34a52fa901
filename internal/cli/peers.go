package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apihttp "github.com/Flarenzy/wg-fleet/internal/http"
)

type peerList []apihttp.PeerResponse

func (l peerList) table() table {
	t := table{headers: []string{"ID", "NAME", "ADDRESS", "STATUS", "HANDSHAKE", "GROUP", "TAGS"}}
	for _, p := range l {
		status := "offline"
		switch {
		case p.Disabled:
			status = "disabled"
		case p.Online:
			status = "online"
		}
		handshake := "never"
		if p.HandshakeSeconds != nil {
			handshake = strconv.FormatInt(*p.HandshakeSeconds, 10) + "s ago"
		}
		t.rows = append(t.rows, []string{
			p.ID, p.Name, strings.Join(p.AllowedAddresses, ","), status, handshake, p.Group, strings.Join(p.Tags, ","),
		})
	}
	return t
}

type bulkView apihttp.BulkResponse

func (b bulkView) table() table {
	t := table{headers: []string{"INTERFACE", "ID", "STATUS", "ERROR"}}
	for _, item := range b.Items {
		t.rows = append(t.rows, []string{item.Interface, item.ID, item.Status, item.Error})
	}
	return t
}

func newPeersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "List peers and apply bulk operations",
	}
	cmd.AddCommand(newPeersListCmd(opts), newPeersBulkCmd(opts))
	return cmd
}

func newPeersListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <interface>",
		Short: "List the normalized peers of an interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peers, err := opts.client.ListPeers(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list peers: %w", err)
			}
			return opts.format(cmd.OutOrStdout(), peerList(peers))
		},
	}
}

func newPeersBulkCmd(opts *options) *cobra.Command {
	var (
		iface      string
		group      string
		groupColor string
		tag        string
	)
	cmd := &cobra.Command{
		Use:   "bulk <operation> <peer-id>...",
		Short: "Apply enable, disable, delete, assign-group or add-tag to many peers",
		Long: `Apply one operation to every listed peer. Peer ids are taken from
--interface unless written as <interface>/<peer-id>. Every peer is attempted;
the command fails when any item failed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apihttp.BulkRequest{Operation: args[0], Group: group, GroupColor: groupColor, Tag: tag}
			for _, arg := range args[1:] {
				target, err := parseTarget(arg, iface)
				if err != nil {
					return err
				}
				req.Targets = append(req.Targets, target)
			}

			out := cmd.OutOrStdout()
			if opts.dryRun {
				fmt.Fprintf(out, "(dry-run) would %s %d peers\n", req.Operation, len(req.Targets))
				return nil
			}
			if req.Operation == "delete" && !opts.yes {
				if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %d peers from the router?", len(req.Targets))) {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			resp, err := opts.client.Bulk(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to apply %s: %w", req.Operation, err)
			}
			if err := opts.format(out, bulkView(resp)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), resp.Summary)
			if resp.Failed > 0 {
				return fmt.Errorf("%d of %d peers failed", resp.Failed, resp.Requested)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&iface, "interface", "i", "", "interface of bare peer ids")
	cmd.Flags().StringVar(&group, "group", "", "group name for assign-group")
	cmd.Flags().StringVar(&groupColor, "group-color", "", "group color for assign-group")
	cmd.Flags().StringVar(&tag, "tag", "", "tag for add-tag")
	return cmd
}

// parseTarget accepts "<interface>/<id>" or a bare id qualified by iface.
func parseTarget(arg, iface string) (apihttp.PeerTargetRequest, error) {
	if name, id, ok := strings.Cut(arg, "/"); ok {
		if name == "" || id == "" {
			return apihttp.PeerTargetRequest{}, fmt.Errorf("invalid peer %q", arg)
		}
		return apihttp.PeerTargetRequest{ID: id, Interface: name}, nil
	}
	if iface == "" {
		return apihttp.PeerTargetRequest{}, fmt.Errorf("peer %q has no interface; pass --interface or use <interface>/<id>", arg)
	}
	return apihttp.PeerTargetRequest{ID: arg, Interface: iface}, nil
}
