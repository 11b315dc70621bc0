package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/domain"
)

// Prints every projection point of each goal in a goal file, one row per period.
// Usage: print_schedule FILE [GOAL]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: print_schedule FILE [GOAL]")
	}
	cfg, err := config.NewInputParser().LoadFromFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	if len(os.Args) > 2 {
		g, ok := cfg.FindGoal(os.Args[2])
		if !ok {
			log.Fatalf("goal %q not found", os.Args[2])
		}
		cfg.Goals = []domain.Goal{*g}
	}

	pe := calculation.NewPlanningEngine()
	plans, err := pe.BuildPlans(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	for i := range plans {
		proj := pe.EvaluateScenario(&plans[i], calculation.ScenarioOptions{})
		fmt.Printf("%s (%s, %.2f%%): per period %s, lump sum %s\n",
			proj.GoalName, proj.Mode, proj.RatePercent,
			proj.Totals.PerPeriod.Fixed(2), proj.Totals.LumpSumNow.Fixed(2))
		for _, pt := range proj.Points {
			fmt.Printf("%4d  %12s  %12s  %12s\n", pt.Period, pt.Total.Fixed(2), pt.Contributions.Fixed(2), pt.Growth.Fixed(2))
		}
		fmt.Println()
	}
}
