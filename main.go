package main

import (
	"fmt"
	"os"

	"github.com/ag-mout/gymnasium-rerun/environment/classiccontrol/mountaincar"
	"github.com/ag-mout/gymnasium-rerun/environment/wrappers"
	"github.com/ag-mout/gymnasium-rerun/experiment"
)

func main() {
	var seed uint64 = 123

	// Create the environment
	m, err := mountaincar.New(mountaincar.RGBArray, 0, seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Record every third episode to a file
	e, err := wrappers.NewRecord(m, "example.gymrec", 3,
		wrappers.ViewerDisabled)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Run 5 episodes of a random policy, 200 steps each
	policy := experiment.RandomDiscrete(3, seed)
	exp := experiment.NewOnline(e, policy, 5, 200, os.Stdout)
	if err := exp.Run(&seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := e.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("recorded %d episodes to example.gymrec (recording %v)\n",
		e.Episode(), e.Recording().ID())
}
