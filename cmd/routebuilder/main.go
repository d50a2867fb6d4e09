// Command routebuilder precomputes a routing table for a network document
// and writes it in the binary format consumed by cmd/simulate (spec §6).
//
// Grounded on the teacher's CLI conventions (main.go's flag-driven startup,
// generalized here to cobra/pflag per the ambient CLI stack) and on
// driver/batch.go's headless, no-sleep execution model: this is a one-shot
// batch tool, not a server.
package main

import (
	"math/rand"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"agvsim/netio"
	"agvsim/model"
	"agvsim/routeio"
	"agvsim/routing"
)

func main() {
	var (
		complete bool
		seed     int64
	)

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := &cobra.Command{
		Use:   "routebuilder <input.json> <output.bin> [num_routes] [seed]",
		Short: "Precompute a routing table from a network document",
		Long: "routebuilder reads a network document and writes a next-hop routing\n" +
			"table in the binary format engines consume. With --complete, every\n" +
			"reachable (origin, destination) pair is covered via a reverse\n" +
			"shortest-path sweep. Otherwise num_routes random origin/destination\n" +
			"pairs are resolved individually via A* and only their hops are stored.",
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New()
			entry := log.WithField("run_id", runID.String())

			inputPath, outputPath := args[0], args[1]

			if len(args) >= 4 {
				parsedSeed, err := strconv.ParseInt(args[3], 10, 64)
				if err != nil {
					return errors.Wrapf(err, "parse seed %q", args[3])
				}
				seed = parsedSeed
			}
			if sflag, _ := cmd.Flags().GetInt64("seed"); cmd.Flags().Changed("seed") {
				seed = sflag
			}

			in, err := os.Open(inputPath)
			if err != nil {
				return errors.Wrapf(err, "open network document %q", inputPath)
			}
			defer in.Close()

			net, err := netio.Load(in)
			if err != nil {
				return errors.Wrap(err, "load network")
			}
			entry.WithField("points", len(net.ControlPoints())).Info("network loaded")

			builder := routing.NewBuilder(net)
			var rt *model.RoutingTable

			if complete {
				entry.Info("building complete routing table")
				rt = builder.BuildComplete()
			} else {
				if len(args) < 3 {
					return errors.New("num_routes is required unless --complete is set")
				}
				numRoutes, err := strconv.Atoi(args[2])
				if err != nil {
					return errors.Wrapf(err, "parse num_routes %q", args[2])
				}
				rt = model.NewRoutingTable()
				points := net.EntryExitPoints()
				if len(points) < 2 {
					return errors.New("network needs at least two entry/exit points for sampled routing")
				}
				rng := rand.New(rand.NewSource(seed))
				built, missed := 0, 0
				for i := 0; i < numRoutes; i++ {
					from := points[rng.Intn(len(points))]
					dest := points[rng.Intn(len(points))]
					if from.ID == dest.ID {
						continue
					}
					if err := builder.BuildSampled(rt, from.ID, dest.ID); err != nil {
						missed++
						entry.WithFields(logrus.Fields{"from": from.ID, "dest": dest.ID}).Warn("no path for sampled pair")
						continue
					}
					built++
				}
				entry.WithFields(logrus.Fields{"built": built, "missed": missed}).Info("sampled routing complete")
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return errors.Wrapf(err, "create output %q", outputPath)
			}
			defer out.Close()

			if err := routeio.Encode(out, rt); err != nil {
				return errors.Wrap(err, "write routing table")
			}
			entry.WithField("entries", rt.Len()).Info("routing table written")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&complete, "complete", "c", false, "build a complete routing table covering every reachable pair")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for sampled-mode random pair selection")

	if err := cmd.Execute(); err != nil {
		log.WithError(err).Error("routebuilder failed")
		os.Exit(1)
	}
}
