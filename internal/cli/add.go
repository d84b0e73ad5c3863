package cli

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/spf13/cobra"
)

// AddMockOptions holds options for the add mock command.
type AddMockOptions struct {
	Method   string
	Status   int
	Group    string
	Delay    time.Duration
	Response string
	Headers  []string
	Inactive bool
}

// NewAddCommand creates the add command with its group and mock subcommands.
func NewAddCommand(global *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add groups and mocks",
	}
	cmd.AddCommand(newAddGroupCommand(global))
	cmd.AddCommand(newAddMockCommand(global))
	return cmd
}

func newAddGroupCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "group NAME",
		Short: "Add a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := global.consoleApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			g, err := a.API().AddGroup(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added group %s [%s]\n", g.Name(), g.ID())
			return nil
		},
	}
}

func newAddMockCommand(global *GlobalOptions) *cobra.Command {
	opts := &AddMockOptions{}

	cmd := &cobra.Command{
		Use:   "mock NAME URL",
		Short: "Add a mock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildMock(args[0], args[1], opts)
			if err != nil {
				return err
			}

			a, err := global.consoleApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.API().AddMock(ctxOf(cmd), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added mock %s %s [%s]\n", m.Method(), m.URL(), m.ID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().IntVarP(&opts.Status, "status", "s", http.StatusOK, "Response status code")
	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Group ID")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "Response delay")
	cmd.Flags().StringVarP(&opts.Response, "response", "r", "", "Response body")
	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, "Response headers (format: Key:Value)")
	cmd.Flags().BoolVar(&opts.Inactive, "inactive", false, "Add the mock switched off")

	return cmd
}

func buildMock(name, url string, opts *AddMockOptions) (*core.Mock, error) {
	if opts.Status < 100 || opts.Status > 599 {
		return nil, fmt.Errorf("invalid status %d", opts.Status)
	}

	m := core.NewMock(name, url)
	m.SetMethod(strings.ToUpper(opts.Method))
	m.SetStatus(opts.Status)
	m.SetGroupID(opts.Group)
	m.SetDelay(opts.Delay)
	m.SetResponse(opts.Response)
	m.SetActive(!opts.Inactive)
	for key, value := range parseHeaders(opts.Headers) {
		m.SetHeader(key, value)
	}
	return m, nil
}

// parseHeaders parses header strings in "Key:Value" format.
func parseHeaders(headers []string) map[string]string {
	result := make(map[string]string)
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}
