package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	globals "github.com/goliatone/go-globals"
	"github.com/goliatone/go-globals/pkg/codec"
)

type opener func(cmd *cobra.Command) (*app, error)

func newShowCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			snapshot, err := readSnapshot(cmd, a)
			if err != nil {
				return err
			}
			text, err := codec.MarshalText(snapshot)
			if err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, text, "", "  "); err != nil {
				return err
			}
			pretty.WriteByte('\n')
			_, err = pretty.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newSetCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set (variable|switch) <id> <value>",
		Short: "Write a global cell through a bootstrapped session",
		Long: "set hydrates a session from the store, writes the cell through the live " +
			"container and lets the syncer persist the new snapshot. Only cells " +
			"registered as global are accepted.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			kind := strings.ToLower(args[0])
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			registry := a.cfg.Registry()
			session, _, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			switch kind {
			case "variable", "var":
				if !registry.IsGlobalVariable(id) {
					return fmt.Errorf("variable %d is not registered as global", id)
				}
				value, err := strconv.ParseFloat(args[2], 64)
				if err != nil {
					return fmt.Errorf("invalid variable value %q: %w", args[2], err)
				}
				if err := session.SetVariable(id, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "variable %d = %s\n", id, strconv.FormatFloat(value, 'g', -1, 64))
			case "switch", "sw":
				if !registry.IsGlobalSwitch(id) {
					return fmt.Errorf("switch %d is not registered as global", id)
				}
				value, err := strconv.ParseBool(args[2])
				if err != nil {
					return fmt.Errorf("invalid switch value %q: %w", args[2], err)
				}
				if err := session.SetSwitch(id, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "switch %d = %t\n", id, value)
			default:
				return fmt.Errorf("unknown cell kind %q (want variable or switch)", args[0])
			}
			return nil
		},
	}
}

func newQueryCmd(open opener) *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "query <expr>",
		Short: "Evaluate an expression over the stored snapshot",
		Long: "Expressions see variable(id), flag(id), the variables and switches maps " +
			"keyed by id strings, and now.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			evaluator, err := globals.NewEvaluator(engine, nil, nil)
			if err != nil {
				return err
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			snapshot, err := readSnapshot(cmd, a)
			if err != nil {
				return err
			}
			query := globals.NewQuery(snapshot,
				globals.WithEvaluator(evaluator),
				globals.WithEvaluatorLogger(evaluatorLogger(a)),
			)
			res, err := query.Evaluate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			return nil
		},
	}
	cmd.Flags().StringVar(&engine, "engine", globals.EngineExpr, "expression engine (expr, cel or js)")
	return cmd
}

func newWhereCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Print the resolved backend and snapshot location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			b := a.backend
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "variant:  %s\n", b.Environment.Variant)
			fmt.Fprintf(out, "runtime:  %s\n", b.Location.Runtime)
			fmt.Fprintf(out, "codec:    %s\n", b.Codec.Name())
			fmt.Fprintf(out, "location: %s\n", b.Location)
			fmt.Fprintf(out, "globals:  variables=%v switches=%v\n", a.cfg.Registry().VariableIDs(), a.cfg.Registry().SwitchIDs())
			return nil
		},
	}
}

// readSnapshot returns the stored snapshot, or an empty one when nothing
// has been written yet.
func readSnapshot(cmd *cobra.Command, a *app) (*globals.Snapshot, error) {
	syncer, err := a.backend.NewSyncer(a.cfg.Registry(), noLiveState{})
	if err != nil {
		return nil, err
	}
	snapshot, err := syncer.ReadSnapshot(cmd.Context())
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return codec.NewSnapshot(), nil
	}
	return snapshot, nil
}

func evaluatorLogger(a *app) globals.EvaluatorLogger {
	return globals.EvaluatorLoggerFunc(func(event globals.EvaluatorLogEvent) {
		a.logger.Debug("globals query",
			"engine", event.Engine,
			"expr", event.Expr,
			"duration", event.Duration,
			"error", event.Err,
		)
	})
}

func closeApp(a *app, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// noLiveState lets read-only commands build a syncer without a session.
type noLiveState struct{}

func (noLiveState) Variable(int) float64 { return 0 }

func (noLiveState) SetVariable(int, float64) error { return nil }

func (noLiveState) Switch(int) bool { return false }

func (noLiveState) SetSwitch(int, bool) error { return nil }
