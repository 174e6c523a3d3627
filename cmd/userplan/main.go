// Command userplan grants or revokes the unlimited plan for an account and
// can reset its credit balance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"mealcheck/internal/adapter/repo"
	"mealcheck/internal/domain"
	"mealcheck/internal/infra"
)

func main() {
	var (
		idFlag      string
		emailFlag   string
		planFlag    string
		creditsFlag int
	)

	flag.StringVar(&idFlag, "id", "", "profile ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "profile email to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free or pro)")
	flag.IntVar(&creditsFlag, "credits", -1, "credit balance to set (negative keeps the current value)")
	flag.Parse()

	_ = godotenv.Load()

	profileID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	plan := strings.TrimSpace(strings.ToLower(planFlag))

	if profileID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	switch plan {
	case "free", "pro":
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	profiles := repo.NewProfileRepository(infra.NewSQLRunner(pool, logger))

	lookupCtx, cancelLookup := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelLookup()

	var profile *domain.Profile
	if profileID != "" {
		profile, err = profiles.GetByID(lookupCtx, profileID)
	} else {
		profile, err = profiles.GetByEmail(lookupCtx, email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			exitWithError(errors.New("profile not found"))
		}
		exitWithError(fmt.Errorf("lookup profile: %w", err))
	}

	var credits *int
	if creditsFlag >= 0 {
		credits = &creditsFlag
	}

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()

	if err := profiles.SetPlan(updateCtx, profile.ID, plan == "pro", credits); err != nil {
		exitWithError(fmt.Errorf("update plan: %w", err))
	}

	balance := profile.Credits
	if credits != nil {
		balance = *credits
	}
	fmt.Printf("profile %s (%s) set to plan=%s credits=%d\n", profile.ID, profile.Email, plan, balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
