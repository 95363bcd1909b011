package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/orkestr8/xflow"
	"github.com/orkestr8/xflow/flow"
	"github.com/orkestr8/xflow/flowfile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func (a *app) load(ctx context.Context, path string, out io.Writer) (context.Context, *flowfile.Flow, error) {
	ctx = flow.WithLogger(ctx, flow.SlogLogger(a.logger))
	f, err := flowfile.Load(ctx, path, a.registry(out))
	return ctx, f, err
}

func newRunCmd(a *app) *cobra.Command {
	var (
		options     flow.Options
		seeds       []string
		metricsAddr string
		hold        bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute a flow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctx, f, err := a.load(ctx, args[0], cmd.OutOrStdout())
			if err != nil {
				return err
			}
			extra, err := parseSeeds(f.Graph, seeds)
			if err != nil {
				return err
			}
			for ref, values := range extra {
				f.Seeds[ref] = append(f.Seeds[ref], values...)
			}

			reg := prometheus.NewRegistry()
			options.Logger = flow.SlogLogger(a.logger)
			options.Metrics = flow.NewMetrics(reg)
			if metricsAddr != "" {
				srv := serveMetrics(metricsAddr, reg, a.logger)
				defer srv.Close()
			}

			ex, err := flow.NewExecutor(f.Graph, options)
			if err != nil {
				return err
			}
			result, err := ex.Run(ctx, nil, f.Seeds)
			if err != nil {
				return err
			}

			if jsonOutput {
				err = printJSON(cmd.OutOrStdout(), f.Graph, result)
			} else {
				printResult(cmd.OutOrStdout(), f.Graph, result)
			}
			if err != nil {
				return err
			}

			if metricsAddr != "" && hold {
				a.logger.Info("Serving metrics until interrupted", "addr", metricsAddr)
				<-ctx.Done()
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&options.MaxGeneration, "max-generation", flow.DefaultMaxGeneration,
		"Times a package lineage may cross feedback connections before the run fails")
	cmd.Flags().IntVar(&options.MaxCycles, "max-cycles", 0, "Fail when more cycles are needed (0 = unlimited)")
	cmd.Flags().IntVar(&options.MaxWorkers, "workers", 0, "Components run at once within a cycle (0 = unbounded)")
	cmd.Flags().StringArrayVar(&seeds, "seed", nil, "Extra seed as component.port=JSON, repeatable")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().BoolVar(&hold, "hold", false, "Keep serving metrics after the run until interrupted")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Build a flow file and describe the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.load(cmd.Context(), args[0], io.Discard)
			if err != nil {
				return err
			}
			describe(cmd.OutOrStdout(), f)
			return nil
		},
	}
}

func newDotCmd(a *app) *cobra.Command {
	var (
		ports bool
		shape string
	)

	cmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Print a flow file's graph in Graphviz DOT format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.load(cmd.Context(), args[0], io.Discard)
			if err != nil {
				return err
			}
			buff, err := xflow.EncodeDot(f.Graph, xflow.DotOptions{
				Indent:     "  ",
				NodeShape:  xflow.NodeShape(shape),
				PortLabels: ports,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buff))
			return err
		},
	}

	cmd.Flags().BoolVar(&ports, "ports", false, "Label edges with their port names")
	cmd.Flags().StringVar(&shape, "shape", "", "Node shape: box, record or ellipse")
	return cmd
}

// parseSeeds reads component.port=VALUE pairs. VALUE is JSON; anything that
// does not parse as JSON is taken as a string.
func parseSeeds(fg *xflow.FlowGraph, seeds []string) (flow.Seeds, error) {
	parsed := flow.Seeds{}
	for _, s := range seeds {
		target, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("bad seed %q, want component.port=VALUE", s)
		}
		name, port, ok := strings.Cut(target, ".")
		if !ok {
			return nil, fmt.Errorf("bad seed %q, want component.port=VALUE", s)
		}
		id, has := fg.Lookup(name)
		if !has {
			return nil, fmt.Errorf("bad seed %q: no component %s", s, name)
		}

		var x interface{} = raw
		dec := json.NewDecoder(bytes.NewBufferString(raw))
		dec.UseNumber()
		var decoded interface{}
		if err := dec.Decode(&decoded); err == nil && !dec.More() {
			x = decoded
		}
		v, err := xflow.ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("bad seed %q: %w", s, err)
		}
		ref := xflow.Ref(id, port)
		parsed[ref] = append(parsed[ref], v)
	}
	return parsed, nil
}

func sortedRefs(fg *xflow.FlowGraph, m map[xflow.PortRef][]xflow.Package) []xflow.PortRef {
	refs := make([]xflow.PortRef, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		return fg.Format(refs[i]) < fg.Format(refs[j])
	})
	return refs
}

func printResult(w io.Writer, fg *xflow.FlowGraph, result *flow.Result) {
	fmt.Fprintf(w, "run %s: %s after %d cycles", result.RunID, result.Stop, result.Cycles)
	if result.Stop == flow.Halted {
		fmt.Fprintf(w, " (break from %s)", fg.Name(result.BrokenBy))
	}
	fmt.Fprintln(w)

	for _, ref := range sortedRefs(fg, result.Outputs) {
		fmt.Fprintf(w, "output %s = %s\n", fg.Format(ref), xflow.List(result.Values(ref)...))
	}
	for _, ref := range sortedRefs(fg, result.Pending) {
		fmt.Fprintf(w, "pending %s: %d\n", fg.Format(ref), len(result.Pending[ref]))
	}
}

type report struct {
	RunID    string                   `json:"run_id"`
	Stop     string                   `json:"stop"`
	Cycles   int                      `json:"cycles"`
	BrokenBy string                   `json:"broken_by,omitempty"`
	Runs     map[string]int           `json:"runs"`
	Outputs  map[string][]xflow.Value `json:"outputs"`
	Pending  map[string]int           `json:"pending,omitempty"`
}

func printJSON(w io.Writer, fg *xflow.FlowGraph, result *flow.Result) error {
	r := report{
		RunID:   result.RunID.String(),
		Stop:    result.Stop.String(),
		Cycles:  result.Cycles,
		Runs:    map[string]int{},
		Outputs: map[string][]xflow.Value{},
		Pending: map[string]int{},
	}
	if result.Stop == flow.Halted {
		r.BrokenBy = fg.Name(result.BrokenBy)
	}
	for id, n := range result.Runs {
		r.Runs[fg.Name(id)] = n
	}
	for ref := range result.Outputs {
		r.Outputs[fg.Format(ref)] = result.Values(ref)
	}
	for ref, packages := range result.Pending {
		r.Pending[fg.Format(ref)] = len(packages)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func describePorts(ports xflow.Ports) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = p.Name + ":" + p.Type.String()
		if p.Optional {
			parts[i] += "?"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func describe(w io.Writer, f *flowfile.Flow) {
	fg := f.Graph
	fmt.Fprintf(w, "graph %s: %d components, %d connections\n", fg.GraphName(), fg.Len(), len(fg.Connections()))
	for _, id := range fg.Order() {
		fmt.Fprintf(w, "  %s (%s) in=%s out=%s\n", fg.Name(id), fg.Mode(id),
			describePorts(fg.Inputs(id)), describePorts(fg.Outputs(id)))
	}

	connections := fg.Connections()
	xflow.SortConnections(connections, xflow.ByEndpoints)
	for _, c := range connections {
		arrow := "->"
		if c.Feedback {
			arrow = "~>"
		}
		fmt.Fprintf(w, "  %s %s %s\n", fg.Format(c.From), arrow, fg.Format(c.To))
	}

	names := func(ids []xflow.ComponentID) string {
		s := make([]string, len(ids))
		for i, id := range ids {
			s[i] = fg.Name(id)
		}
		return strings.Join(s, " ")
	}
	fmt.Fprintf(w, "sources: %s\n", names(fg.Sources()))
	fmt.Fprintf(w, "terminals: %s\n", names(fg.Terminals()))
	fmt.Fprintf(w, "seeds: %d\n", len(f.Seeds))
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	return srv
}
