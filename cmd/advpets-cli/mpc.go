package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dreyvor/ADVPETs-projects/internal/nettest"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/expr"
	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
	"github.com/Dreyvor/ADVPETs-projects/pkg/party"
)

var (
	mpcScenario string
	mpcInputs   []int64
)

var mpcCmd = &cobra.Command{
	Use:   "mpc",
	Short: "Run the additive secret-sharing MPC engine",
}

var mpcRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a canonical scenario across in-process parties",
	Long: `Runs one of the canonical scenarios from SPEC_FULL.md's testable
properties across three in-process parties (alice, bob, carol), each
communicating over an in-memory network, and prints the value every party
reconstructs.`,
	RunE: runMPCRun,
}

func init() {
	mpcRunCmd.Flags().StringVar(&mpcScenario, "scenario", "sum", "Scenario: sum, mixed, products")
	mpcRunCmd.Flags().Int64SliceVar(&mpcInputs, "inputs", nil, "Override the three party inputs (alice,bob,carol)")
	mpcCmd.AddCommand(mpcRunCmd)
}

func buildScenario(scenario string, a, b, c *expr.Secret) (expr.Expression, error) {
	switch scenario {
	case "sum":
		return expr.Add(expr.Add(a, b), c), nil
	case "mixed":
		five := expr.NewScalar(field.New(5))
		nine := expr.NewScalar(field.New(9))
		return expr.Add(expr.Sub(expr.Add(expr.Mul(a, five), b), c), nine), nil
	case "products":
		ab := expr.Mul(a, b)
		bc := expr.Mul(b, c)
		ca := expr.Mul(c, a)
		return expr.Add(expr.Add(ab, bc), ca), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q (want sum, mixed, or products)", scenario)
	}
}

func runMPCRun(cmd *cobra.Command, args []string) error {
	parties := party.IDSlice{"alice", "bob", "carol"}.Sorted()

	vals := []int64{3, 14, 2}
	if len(mpcInputs) > 0 {
		if len(mpcInputs) != 3 {
			return fmt.Errorf("--inputs needs exactly 3 values, got %d", len(mpcInputs))
		}
		vals = mpcInputs
	}

	a, b, c := expr.NewSecret(), expr.NewSecret(), expr.NewSecret()
	root, err := buildScenario(mpcScenario, a, b, c)
	if err != nil {
		return err
	}
	expr.BindOpIDs(root, expr.NewRunNonce())

	inputs := map[party.ID]map[expr.SecretID]field.Elem{
		parties[0]: {a.ID(): field.New(uint64(vals[0]))},
		parties[1]: {b.ID(): field.New(uint64(vals[1]))},
		parties[2]: {c.ID(): field.New(uint64(vals[2]))},
	}

	net := nettest.New(parties)
	defer net.Close()

	results, err := mpc.RunCircuit(parties, inputs, root, net)
	if err != nil {
		return fmt.Errorf("circuit evaluation failed: %w", err)
	}

	fmt.Printf("scenario %q with inputs %v\n", mpcScenario, vals)
	for _, id := range parties {
		fmt.Printf("  %-6s reconstructed %d\n", id, results[id])
	}
	return nil
}
