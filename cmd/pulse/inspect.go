package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/memctrl"
)

var (
	flagInspectCapacity uint64
	flagInspectAddress  uint32
	flagInspectWords    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <program-image>",
	Short: "Dump backing-store words from a raw program image, without running it.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		inspectImage(args[0])
	},
}

func init() {
	inspectCmd.Flags().Uint64Var(&flagInspectCapacity, "capacity", 64*1024,
		"backing-store capacity in bytes (must be at least as large as the image)")
	inspectCmd.Flags().Uint32Var(&flagInspectAddress, "address", 0,
		"word-aligned address to start dumping from")
	inspectCmd.Flags().IntVar(&flagInspectWords, "words", 16,
		"number of words to dump")

	rootCmd.AddCommand(inspectCmd)
}

func inspectImage(imagePath string) {
	if !membus.Aligned(flagInspectAddress) {
		log.Fatalf("pulse: --address must be word-aligned")
	}

	mem := memctrl.MakeBuilder().
		WithCapacity(flagInspectCapacity).
		WithReadChannels(1).
		WithWriteChannels(1).
		Build("inspect")

	if err := loadImage(mem, imagePath); err != nil {
		log.Fatalf("pulse: loading image %s: %v", imagePath, err)
	}

	for i := 0; i < flagInspectWords; i++ {
		addr := flagInspectAddress + uint32(i*membus.DataBytes)
		fmt.Printf("0x%08x: 0x%08x\n", addr, mem.PeekWord(addr))
	}
}
