package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/calibrex/grading-controller/internal/replay"
)

// #endregion

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to a JSON replay fixture")
	verbose := flag.Bool("v", false, "print every action result")
	timeout := flag.Duration("timeout", 30*time.Second, "replay deadline")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -fixture <path> [-v]")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("[REPLAY] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summary, err := replay.Replay(ctx, fixture)
	if err != nil {
		log.Fatalf("[REPLAY] %v", err)
	}

	printSummary(summary, *verbose)
	if summary.Errors > 0 {
		os.Exit(1)
	}
}

// #endregion

// #region output

func printSummary(s replay.Summary, verbose bool) {
	fmt.Printf("Replay: %s\n", s.Description)
	if verbose {
		for _, a := range s.Actions {
			status := "ok"
			if a.Err != nil {
				status = a.Err.Error()
			}
			fmt.Printf("  [%02d] %-10s %s\n", a.Step, a.Type, status)
		}
	}
	fmt.Printf("actions=%d errors=%d graded=%d overrides=%d\n",
		len(s.Actions), s.Errors, s.GradedCount, s.OverrideCount)
	fmt.Printf("confidence=%.1f flags=%v final=%s\n",
		s.Confidence, s.HighRiskFlags, s.FinalScreen)
}

// #endregion
