package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"widgetdb/internal/bench"
	"widgetdb/pkg/client"
	"widgetdb/pkg/widget"
)

// clientAPI narrows the HTTP client to what the workloads need.
type clientAPI struct{ c *client.WidgetClient }

func (a clientAPI) Create(p widget.CreateParams) (uuid.UUID, error) {
	w, err := a.c.Create(p)
	return w.ID, err
}

func (a clientAPI) Get(id uuid.UUID) error {
	_, err := a.c.Get(id)
	return err
}

func (a clientAPI) Update(id uuid.UUID, p widget.UpdateParams) error {
	_, err := a.c.Update(id, p)
	return err
}

func newBenchCmd() *cobra.Command {
	var (
		ops         int
		concurrency int
		zSpread     int32
	)

	cmd := &cobra.Command{
		Use:   "bench [base-url]",
		Short: "Run load scenarios against a running server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := "http://localhost:8080"
			if len(args) > 0 {
				baseURL = args[0]
			}
			if ops < 1 || concurrency < 1 || zSpread < 1 {
				return fmt.Errorf("ops, concurrency and z-spread must be positive")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== widgetdb benchmark ===")
			fmt.Fprintf(out, "Target: %s\n", baseURL)

			api := clientAPI{client.New(baseURL)}
			if _, err := api.c.List(0, 1); err != nil {
				return fmt.Errorf("server %s is not available: %w", baseURL, err)
			}

			for _, sc := range bench.Scenarios(api, zSpread) {
				bench.Print(out, sc.Name, bench.Run(sc.Op, ops, concurrency))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&ops, "ops", 100, "operations per scenario")
	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "parallel workers")
	cmd.Flags().Int32Var(&zSpread, "z-spread", 50, "explicit z values are drawn from [0, z-spread)")
	return cmd
}
