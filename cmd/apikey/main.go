// Command apikey manages the locally stored Gemini key. When a key is
// present the API talks to Gemini directly instead of the remote analysis
// function.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"mealcheck/internal/infra/credentials"
	"mealcheck/internal/localstore"
)

func main() {
	var (
		keyFlag   string
		clearFlag bool
		showFlag  bool
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key to store (falls back to GEMINI_API_KEY)")
	flag.BoolVar(&clearFlag, "clear", false, "remove the stored key")
	flag.BoolVar(&showFlag, "status", false, "report whether a key is stored")
	flag.Parse()

	_ = godotenv.Load()

	basePath := os.Getenv("LOCAL_STORE_PATH")
	if basePath == "" {
		basePath = "./data"
	}
	store, err := localstore.New(basePath)
	if err != nil {
		exitWithError(fmt.Errorf("open local store: %w", err))
	}
	creds := credentials.NewStore(store)

	switch {
	case clearFlag:
		if err := creds.Clear(); err != nil {
			exitWithError(fmt.Errorf("clear key: %w", err))
		}
		fmt.Println("stored key removed")
	case showFlag:
		if creds.HasOverride() {
			fmt.Println("a Gemini key is stored; direct mode active")
		} else {
			fmt.Println("no key stored; requests go through the analysis function")
		}
	default:
		key := strings.TrimSpace(keyFlag)
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		}
		if key == "" {
			exitWithError(fmt.Errorf("a key is required via -key or GEMINI_API_KEY"))
		}
		if err := creds.SetGeminiAPIKey(key); err != nil {
			exitWithError(fmt.Errorf("store key: %w", err))
		}
		fmt.Println("Gemini API key stored successfully")
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
