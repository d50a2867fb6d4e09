// Command simulate runs a headless AGV network scenario to a fixed
// simulated-time horizon and reports the result, the discrete-event
// counterpart to the teacher's driver/batch.go fast-forward bus simulation
// and cmd-line surface.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"agvsim/config"
	"agvsim/engine"
	"agvsim/model"
	"agvsim/netio"
	"agvsim/report"
	"agvsim/routeio"
	"agvsim/vehiclegen"
)

func main() {
	var (
		networkPath string
		routesPath  string
		configPath  string
		reportPath  string
		horizon     float64
		lambda      float64
		speed       float64
		capacity    int
		hotRegion   string
		gradient    float64
	)

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless AGV network simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New()
			entry := log.WithField("run_id", runID.String())

			cfg, err := config.LoadEngine(configPath)
			if err != nil {
				return errors.Wrap(err, "load engine config")
			}
			if cmd.Flags().Changed("horizon") {
				cfg.Horizon = horizon
			}

			netFile, err := os.Open(networkPath)
			if err != nil {
				return errors.Wrapf(err, "open network %q", networkPath)
			}
			defer netFile.Close()
			net, err := netio.Load(netFile)
			if err != nil {
				return errors.Wrap(err, "load network")
			}

			routesFile, err := os.Open(routesPath)
			if err != nil {
				return errors.Wrapf(err, "open routing table %q", routesPath)
			}
			defer routesFile.Close()
			rt, err := routeio.Decode(routesFile)
			if err != nil {
				return errors.Wrap(err, "decode routing table")
			}
			entry.WithFields(logrus.Fields{
				"points":  len(net.ControlPoints()),
				"entries": rt.Len(),
			}).Info("scenario loaded")

			sch := engine.NewScheduler()
			eng := engine.New(net, rt, sch, engine.Config{
				SmoothFactor:   cfg.SmoothFactor,
				ColdStartDelay: cfg.ColdStartDelay,
				MinimalTick:    cfg.MinimalTick,
			}, entry)

			csvObs := report.NewCSVObserver(sch.Now)
			eng.AddObserver(csvObs)

			gen := vehiclegen.New(net, vehiclegen.Config{
				LambdaPerEntry:  lambda,
				Tick:            1,
				Speed:           speed,
				CapacityNeeded:  capacity,
				HotRegion:       hotRegion,
				SpatialGradient: gradient,
			}, cfg.Seed)
			gen.Run(sch, eng, cfg.Horizon)

			sch.RunUntil(cfg.Horizon)

			if eng.Halted() {
				entry.WithError(eng.HaltErr()).Error("engine halted on invariant violation")
			}

			fmt.Printf("=== Simulation Report ===\n")
			fmt.Printf("Horizon: %.2f\n", cfg.Horizon)
			fmt.Printf("Control points: %d\n", len(net.ControlPoints()))
			fmt.Printf("Routing table entries: %d\n", rt.Len())
			if eng.Halted() {
				fmt.Printf("HALTED: %v\n", eng.HaltErr())
			}

			if reportPath != "" {
				out, err := csvObs.WriteFile(reportPath)
				if err != nil {
					return errors.Wrap(err, "write trajectory report")
				}
				fmt.Printf("Trajectory report written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&networkPath, "network", "n", "", "network document (JSON)")
	cmd.Flags().StringVarP(&routesPath, "routes", "r", "", "routing table (binary)")
	cmd.Flags().StringVar(&configPath, "config", "", "engine tunables (YAML)")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a CSV trajectory report to this file or directory")
	cmd.Flags().Float64Var(&horizon, "horizon", 1000, "simulated-time horizon to run until")
	cmd.Flags().Float64Var(&lambda, "lambda", 0.1, "mean vehicle arrivals per entry point per simulated time unit")
	cmd.Flags().Float64Var(&speed, "vehicle-speed", 1.0, "default generated vehicle speed")
	cmd.Flags().IntVar(&capacity, "vehicle-capacity", 1, "capacity each generated vehicle needs per segment")
	cmd.Flags().StringVar(&hotRegion, "hot-region", "", "region name favored as a generated vehicle's destination")
	cmd.Flags().Float64Var(&gradient, "spatial-gradient", 0, "strength (0-1) of the hot-region destination bias")
	cmd.MarkFlagRequired("network")
	cmd.MarkFlagRequired("routes")

	if err := cmd.Execute(); err != nil {
		log.WithError(err).Error("simulate failed")
		os.Exit(1)
	}
}
