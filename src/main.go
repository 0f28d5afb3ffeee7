package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elevcoord/lib/driver-go/elevio"
	"elevcoord/src/config"
	"elevcoord/src/dispatcher"
	"elevcoord/src/executor"
	"elevcoord/src/network"
	"elevcoord/src/types"
	"elevcoord/src/utils"
	"elevcoord/src/worldview"

	"golang.org/x/sync/errgroup"
)

func main() {
	nodeID := flag.Int("id", -1, "Node ID of the elevator")
	port := flag.Int("port", 0, "Port of the elevator hardware server (default 15657+id)")
	configPath := flag.String("config", "elevator.yaml", "YAML configuration file")
	envPath := flag.String("env", ".env", "dotenv file with ELEV_* overrides")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *nodeID >= 0 {
		cfg.NodeID = *nodeID
	}
	switch {
	case *port != 0:
		cfg.HwAddr = fmt.Sprintf("localhost:%d", *port)
	case cfg.HwAddr == config.Default().HwAddr:
		cfg.HwAddr = fmt.Sprintf("localhost:%d", config.HwBasePort+cfg.NodeID)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	closeLog, err := utils.InitLogger(cfg.NodeID, cfg.LogLevel, cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		slog.Error("Node stopped", "error", err)
	}
	if closeErr := closeLog(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv, err := elevio.Dial(cfg.HwAddr, cfg.NumFloors)
	if err != nil {
		return err
	}
	defer drv.Close()

	hwEvents := make(chan types.HwEvent, 32)
	reportCh := make(chan types.LocalReport, 1)
	assignCh := make(chan types.Assignment, 1)
	txCh := make(chan worldview.Message, 16)
	rxCh := make(chan worldview.Message, 64)

	exec := executor.New(cfg, drv)
	disp := dispatcher.New(cfg, drv, time.Now())

	g, ctx := errgroup.WithContext(ctx)

	// Elevator control
	g.Go(func() error { return drv.PollButtons(ctx, cfg.SensorPollRate, hwEvents) })
	g.Go(func() error { return drv.PollFloorSensor(ctx, cfg.SensorPollRate, hwEvents) })
	g.Go(func() error { return drv.PollStopButton(ctx, cfg.SensorPollRate, hwEvents) })
	g.Go(func() error { return drv.PollObstructionSwitch(ctx, cfg.SensorPollRate, hwEvents) })
	g.Go(func() error { return exec.Run(ctx, hwEvents, assignCh, reportCh) })

	// Coordination
	g.Go(func() error { return disp.Run(ctx, reportCh, assignCh, rxCh, txCh) })
	g.Go(func() error {
		return network.Run(ctx, network.Options{
			Port:        cfg.BcastPort,
			Self:        cfg.NodeID,
			Repetitions: cfg.MsgRepetitions,
			Interval:    config.MsgInterval,
			DedupWindow: config.DedupWindow,
		}, txCh, rxCh)
	})

	slog.Info("Node started", "nodeID", cfg.NodeID, "hardware", cfg.HwAddr, "floors", cfg.NumFloors)
	return g.Wait()
}
