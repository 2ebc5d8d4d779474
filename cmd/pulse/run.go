package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/jawline/Pulse/config"
	"github.com/jawline/Pulse/dma"
	"github.com/jawline/Pulse/hwclock"
	"github.com/jawline/Pulse/monitoring"
	"github.com/jawline/Pulse/system"
)

var (
	flagEnvFile       string
	flagCapacity      uint64
	flagHarts         int
	flagMaxCycles     uint64
	flagEnableDMA     bool
	flagBaudRate      float64
	flagClockFreqHz   float64
	flagMonitorPort   int
	flagOpenDashboard bool
)

var runCmd = &cobra.Command{
	Use:   "run <program-image>",
	Short: "Load a guest program image and step the system.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runPulse(args[0])
	},
}

func init() {
	runCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env",
		"path to an optional .env file of simulation parameters")
	runCmd.Flags().Uint64Var(&flagCapacity, "capacity", 64*1024,
		"backing-store capacity in bytes")
	runCmd.Flags().IntVar(&flagHarts, "harts", 1, "number of harts")
	runCmd.Flags().Uint64Var(&flagMaxCycles, "max-cycles", 1_000_000,
		"stop after this many cycles even if the hart hasn't halted")
	runCmd.Flags().BoolVar(&flagEnableDMA, "dma", true,
		"wire a DMA engine with a UART front end")
	runCmd.Flags().Float64Var(&flagBaudRate, "baud", 9600, "UART baud rate")
	runCmd.Flags().Float64Var(&flagClockFreqHz, "clock-freq", 16e6,
		"system clock frequency in Hz")
	runCmd.Flags().IntVar(&flagMonitorPort, "monitor-port", 0,
		"monitoring server port (0 picks an ephemeral port)")
	runCmd.Flags().BoolVar(&flagOpenDashboard, "open-dashboard", false,
		"open the monitoring server's healthz page in a browser once it starts")

	rootCmd.AddCommand(runCmd)
}

func runPulse(imagePath string) {
	cfg, err := config.FromEnv(flagEnvFile)
	if err != nil {
		log.Fatalf("pulse: loading config: %v", err)
	}

	capacity := flagCapacity
	if cfg.MemoryCapacity != 0 {
		capacity = cfg.MemoryCapacity
	}

	baud := flagBaudRate
	if cfg.BaudRate != 0 {
		baud = cfg.BaudRate
	}

	clockFreq := flagClockFreqHz
	if cfg.ClockFreqHz != 0 {
		clockFreq = cfg.ClockFreqHz
	}

	monitorPort := flagMonitorPort
	if cfg.MonitorPort != 0 {
		monitorPort = cfg.MonitorPort
	}

	builder := system.MakeBuilder().
		WithMemoryCapacity(capacity).
		WithHarts(flagHarts)

	if flagEnableDMA {
		builder = builder.WithDMA(dma.MakeBuilder().WithUART(dma.UARTConfig{
			ClockFreq: hwclock.Freq(clockFreq),
			BaudRate:  baud,
			Parity:    dma.ParityNone,
			StopBits:  1,
		}))
	}

	sys := builder.Build("pulse")

	if err := loadImage(sys.Mem(), imagePath); err != nil {
		log.Fatalf("pulse: loading image %s: %v", imagePath, err)
	}

	srv := monitoring.NewServer(sys).WithPortNumber(monitorPort)

	addr, err := srv.Start()
	if err != nil {
		log.Fatalf("pulse: starting monitoring server: %v", err)
	}

	fmt.Fprintf(os.Stderr, "pulse: monitoring at http://%s\n", addr)

	if flagOpenDashboard {
		if err := browser.OpenURL("http://" + addr + "/healthz"); err != nil {
			log.Println("pulse: could not open browser:", err)
		}
	}

	for cycle := uint64(0); cycle < flagMaxCycles; cycle++ {
		sys.Step()

		if sys.Hart(0).Halted() {
			break
		}
	}

	fmt.Fprintf(os.Stderr, "pulse: stopped at cycle %d, pc=0x%08x, error=%v\n",
		sys.Cycle(), sys.Hart(0).PC(), sys.Hart(0).Error())
}
