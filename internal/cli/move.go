package cli

import (
	"fmt"

	"github.com/artpar/mockdeck/internal/mockapi"
	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/spf13/cobra"
)

// NewMoveCommand creates the move command.
func NewMoveCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move MOCK_ID [GROUP_ID]",
		Short: "Move a mock into a group",
		Long:  "Drop a mock onto a group, or onto the ungrouped root when GROUP_ID is omitted.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := sidebar.Root
			if len(args) == 2 {
				target = sidebar.DropTarget{GroupID: args[1]}
			}
			return runMove(cmd, global, args[0], target)
		},
	}
}

func runMove(cmd *cobra.Command, global *GlobalOptions, mockID string, target sidebar.DropTarget) error {
	a, err := global.consoleApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	api := a.API()
	m, ok := api.Mock(mockID)
	if !ok {
		return fmt.Errorf("%w: %s", mockapi.ErrUnknownMock, mockID)
	}
	if target.GroupID != "" {
		if _, ok := api.Group(target.GroupID); !ok {
			return fmt.Errorf("%w: %s", mockapi.ErrUnknownGroup, target.GroupID)
		}
	}

	host, err := a.NewHost()
	if err != nil {
		return err
	}

	intent, err := host.OnDrop(ctxOf(cmd), sidebar.DragPayload{ItemID: mockID}, target)
	if err != nil {
		return err
	}

	where := "root"
	if target.GroupID != "" {
		where = target.GroupID
	}
	if _, moved := intent.(sidebar.SetGroup); !moved {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already in %s\n", m.Name(), where)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", m.Name(), where)
	return nil
}
