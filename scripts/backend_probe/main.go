package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/visa-admin/internal/gateway"
	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/internal/repository"
)

// probe is the outcome of fetching one module's collection.
type probe struct {
	Module   models.Module
	Count    int
	Unknown  map[string]int
	Duration time.Duration
	Error    error
}

func main() {
	var (
		baseURL  string
		email    string
		password string
		modules  string
		timeout  time.Duration
	)

	flag.StringVar(&baseURL, "backend", "http://localhost:5000/api/v1/", "Backend API base URL")
	flag.StringVar(&email, "email", os.Getenv("PROBE_EMAIL"), "Staff email used to log in")
	flag.StringVar(&password, "password", os.Getenv("PROBE_PASSWORD"), "Staff password used to log in")
	flag.StringVar(&modules, "modules", "", "Comma separated modules to probe (default: all)")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "Backend request timeout")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("email and password are required (flags or PROBE_EMAIL / PROBE_PASSWORD)")
	}

	selected, err := selectModules(modules)
	if err != nil {
		log.Fatal(err)
	}

	sessions := repository.NewMemorySessionRepository()
	client := gateway.New(gateway.Config{BaseURL: baseURL, Timeout: timeout}, sessions, nil, nil)

	ctx := context.Background()
	login, err := client.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     login.Token,
		User:      login.User,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := sessions.Save(ctx, session); err != nil {
		log.Fatalf("store session: %v", err)
	}
	ctx = gateway.WithSession(ctx, session.ID)

	results := make([]probe, 0, len(selected))
	failed := 0
	for _, m := range selected {
		res := probeModule(ctx, client, m)
		if res.Error != nil {
			failed++
		}
		results = append(results, res)
	}

	printReport(login.User, results)
	fmt.Printf("Failed modules: %d of %d\n", failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

func selectModules(raw string) ([]models.Module, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Modules(), nil
	}
	var out []models.Module
	for _, name := range strings.Split(raw, ",") {
		m, ok := models.LookupModule(name)
		if !ok {
			return nil, fmt.Errorf("unknown module %q", strings.TrimSpace(name))
		}
		out = append(out, m)
	}
	return out, nil
}

func probeModule(ctx context.Context, client *gateway.Client, m models.Module) probe {
	res := probe{Module: m, Unknown: map[string]int{}}
	start := time.Now()
	apps, err := client.ListApplications(ctx, m)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	res.Count = len(apps)
	for _, app := range apps {
		if _, ok := models.ParseApplicationStatus(string(app.ApplicationStatus)); !ok {
			res.Unknown[string(app.ApplicationStatus)]++
		}
	}
	return res
}

func printReport(user models.UserProfile, results []probe) {
	fmt.Println("Backend Probe Report")
	fmt.Println("====================")
	fmt.Printf("Logged in as %s\n", user.DisplayName())
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		}
		fmt.Printf("[%s] %s (%s)\n", status, res.Module.Title, res.Module.ListPath)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Records: %d | Duration: %s\n", res.Count, res.Duration)
		if len(res.Unknown) > 0 {
			keys := make([]string, 0, len(res.Unknown))
			for k := range res.Unknown {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  Unlisted status %q: %d\n", k, res.Unknown[k])
			}
		}
	}
}
