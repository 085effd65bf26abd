package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/highway-sim/highway-sim/sim"
	"github.com/highway-sim/highway-sim/sim/report"
	"github.com/highway-sim/highway-sim/sim/trace"
)

var (
	// General run flags
	configPath  string // Optional YAML configuration file
	seed        int64  // Seed for every random stream of the run
	cycles      int64  // Number of cycles to run (0 = until interrupted)
	logLevel    string // Log verbosity level
	traceLevel  string // Event trace verbosity
	metricsPath string // Optional file for the end-of-run metrics JSON

	// Highway geometry
	highwayName string // Display name of the highway
	lanes       int    // Lanes per direction
	size        int    // Highway length in cells
	speedLimit  int    // Advisory speed limit

	// Traffic model
	newVehicleProb    float64       // Per-lane spawn probability
	changeLaneProb    float64       // Per-vehicle lane change probability
	collisionProb     float64       // Base collision probability
	collisionDuration int64         // Cycles a wreck stays on the road
	minSpeed          int           // Minimum speed (cells/cycle)
	maxSpeed          int           // Maximum speed (cells/cycle)
	minAcceleration   int           // Minimum acceleration (cells/cycle^2)
	maxAcceleration   int           // Maximum acceleration (cells/cycle^2)
	cycleDuration     time.Duration // Wall-clock pacing between cycles

	// Outputs
	reporting reporterOptions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "highway-sim",
	Short: "Cellular-automaton traffic simulator for bidirectional multi-lane highways",
}

// runCmd executes the simulation using the configuration file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the highway simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (none, events, all)", traceLevel)
		}

		fileCfg := DefaultFileConfig()
		if configPath != "" {
			if fileCfg, err = LoadFileConfig(configPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		// Flags set explicitly on the command line win over the file.
		applyFlagOverrides(cmd.Flags().Changed, &fileCfg)
		cfg := fileCfg.SimConfig()

		s, err := sim.NewSimulator(cfg, fileCfg.Seed,
			sim.WithTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}))
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runID := uuid.NewString()
		reporters, err := buildReporters(ctx, reporting, runID)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		dispatcher := report.NewDispatcher(reporters...)

		logrus.Infof("Starting run %s: seed=%d cycles=%d reporters=%d", runID, fileCfg.Seed, cycles, dispatcher.Len())
		startTime := time.Now()
		s.Run(ctx, cycles, dispatcher)

		if err := dispatcher.Close(); err != nil {
			logrus.Warnf("Closing reporters: %v", err)
		}
		s.Metrics.SaveResults(cfg.Highway.Name, startTime, metricsPath)
		if s.Trace != nil {
			logTraceSummary(trace.Summarize(s.Trace))
		}

		logrus.Info("Simulation complete.")
	},
}

// defaultsCmd prints the built-in configuration as a starting point for --config
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := WriteFileConfig(cmd.OutOrStdout(), DefaultFileConfig()); err != nil {
			logrus.Fatalf("Failed to write defaults: %v", err)
		}
	},
}

// applyFlagOverrides copies every flag the user set into cfg.
func applyFlagOverrides(changed func(name string) bool, cfg *FileConfig) {
	h, p := &cfg.Highway, &cfg.Simulation
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"seed", func() { cfg.Seed = seed }},
		{"name", func() { h.Name = highwayName }},
		{"lanes", func() { h.Lanes = lanes }},
		{"size", func() { h.Size = size }},
		{"speed-limit", func() { h.SpeedLimit = speedLimit }},
		{"new-vehicle-prob", func() { p.NewVehicleProbability = newVehicleProb }},
		{"change-lane-prob", func() { p.ChangeLaneProbability = changeLaneProb }},
		{"collision-prob", func() { p.CollisionProbability = collisionProb }},
		{"collision-duration", func() { p.CollisionDuration = collisionDuration }},
		{"min-speed", func() { p.MinSpeed = minSpeed }},
		{"max-speed", func() { p.MaxSpeed = maxSpeed }},
		{"min-acceleration", func() { p.MinAcceleration = minAcceleration }},
		{"max-acceleration", func() { p.MaxAcceleration = maxAcceleration }},
		{"cycle-duration", func() { p.CycleDuration = cycleDuration }},
	}
	for _, o := range overrides {
		if changed(o.flag) {
			o.apply()
		}
	}
}

func logTraceSummary(ts *trace.TraceSummary) {
	logrus.Infof("Trace: spawns=%d lane_changes=%d collisions=%d blocked=%d exits=%d reaps=%d",
		ts.Spawns, ts.LaneChanges, ts.Collisions, ts.Blocked, ts.Exits, ts.Reaps)
	if ts.Reaps > 0 {
		logrus.Infof("Trace: mean wreck lifetime %.2f cycles", ts.MeanWreckCycles)
	}
	for lane, n := range ts.CollisionsByLane {
		logrus.Debugf("Trace: lane %d collisions=%d", lane, n)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	d := DefaultFileConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file (see `highway-sim defaults`)")
	runCmd.Flags().Int64Var(&seed, "seed", d.Seed, "Seed for all random streams")
	runCmd.Flags().Int64Var(&cycles, "cycles", 0, "Number of cycles to run (0 runs until interrupted)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Event trace level (none, events, all)")
	runCmd.Flags().StringVar(&metricsPath, "metrics-path", "", "File to write the end-of-run metrics JSON to")

	// Highway geometry
	runCmd.Flags().StringVar(&highwayName, "name", d.Highway.Name, "Highway name")
	runCmd.Flags().IntVar(&lanes, "lanes", d.Highway.Lanes, "Number of lanes in each direction")
	runCmd.Flags().IntVar(&size, "size", d.Highway.Size, "Length of the highway in cells")
	runCmd.Flags().IntVar(&speedLimit, "speed-limit", d.Highway.SpeedLimit, "Speed limit of the highway (reported only)")

	// Traffic model
	runCmd.Flags().Float64Var(&newVehicleProb, "new-vehicle-prob", d.Simulation.NewVehicleProbability, "Probability of a new vehicle entering a lane")
	runCmd.Flags().Float64Var(&changeLaneProb, "change-lane-prob", d.Simulation.ChangeLaneProbability, "Probability of a vehicle changing lanes")
	runCmd.Flags().Float64Var(&collisionProb, "collision-prob", d.Simulation.CollisionProbability, "Probability of collision at maximum speed")
	runCmd.Flags().Int64Var(&collisionDuration, "collision-duration", d.Simulation.CollisionDuration, "Cycles a wreck blocks its lane before removal")
	runCmd.Flags().IntVar(&minSpeed, "min-speed", d.Simulation.MinSpeed, "Minimum speed of a vehicle (cells/cycle)")
	runCmd.Flags().IntVar(&maxSpeed, "max-speed", d.Simulation.MaxSpeed, "Maximum speed of a vehicle (cells/cycle)")
	runCmd.Flags().IntVar(&minAcceleration, "min-acceleration", d.Simulation.MinAcceleration, "Minimum acceleration of a vehicle (cells/cycle^2)")
	runCmd.Flags().IntVar(&maxAcceleration, "max-acceleration", d.Simulation.MaxAcceleration, "Maximum acceleration of a vehicle (cells/cycle^2)")
	runCmd.Flags().DurationVar(&cycleDuration, "cycle-duration", d.Simulation.CycleDuration, "Wall-clock duration of each cycle")

	// Outputs
	runCmd.Flags().BoolVar(&reporting.Print, "print", false, "Draw the highway in the terminal every cycle")
	runCmd.Flags().BoolVar(&reporting.NoColor, "no-color", false, "Draw the highway without ANSI colours")
	runCmd.Flags().StringVar(&reporting.OutputDir, "output-dir", "", "Directory for the rotating cycle export files")
	runCmd.Flags().Int64Var(&reporting.ExportEvery, "export-every", 1, "Export every n-th cycle")
	runCmd.Flags().IntVar(&reporting.ExportFiles, "export-files", report.DefaultExportFiles, "Number of rotating export slots")
	runCmd.Flags().StringVar(&reporting.RPCAddr, "rpc-addr", "", "Base URL of the cycle collector (e.g. http://localhost:50051)")
	runCmd.Flags().DurationVar(&reporting.RPCTimeout, "rpc-timeout", report.DefaultRPCTimeout, "Timeout of each collector call")
	runCmd.Flags().StringVar(&reporting.MongoURI, "mongo-uri", "", "MongoDB URI for per-cycle documents")
	runCmd.Flags().StringVar(&reporting.MongoDatabase, "mongo-db", report.DefaultMongoDatabase, "MongoDB database")
	runCmd.Flags().StringVar(&reporting.MongoCollection, "mongo-collection", report.DefaultMongoCollection, "MongoDB collection")
	runCmd.Flags().StringVar(&reporting.HistoryDB, "history-db", "", "SQLite database for per-cycle statistics")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
