// seed inserts demo accounts into the local dev database, including one
// deactivated account for exercising the guard.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/ErlanBelekov/auth-service/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/auth-service/internal/password"
)

const seedPassword = "seed-password"

type account struct {
	email  string
	name   string
	active bool
}

var accounts = []account{
	{"alice@test.local", "Alice Liddell", true},
	{"bob@test.local", "Bob Marley Jr", true},
	{"carol@test.local", "Carol Danvers", true},
	{"dormant@test.local", "Dormant Account", false},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL, 4)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := postgres.NewUserRepository(pool)
	hasher := password.NewHasher(password.DefaultCost)

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	var inserted, skipped int
	var activeID string
	for _, a := range accounts {
		u, err := repo.Insert(ctx, &domain.User{
			Email:        a.email,
			PasswordHash: hash,
			Name:         a.name,
			IsActive:     a.active,
			Roles:        domain.DefaultRoles(),
		})
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			skipped++
			continue
		case err != nil:
			log.Fatalf("insert %s: %v", a.email, err)
		}
		inserted++
		if a.active && activeID == "" {
			activeID = u.ID
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("count: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Accounts created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Printf("  Accounts total:   %d\n", total)
	fmt.Printf("  Password:         %s\n", seedPassword)
	if activeID != "" {
		fmt.Printf("  First active id:  %s\n", activeID)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in as an active account:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", accounts[0].email, seedPassword)
	fmt.Println("    # → {\"user\":{...},\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2: call a guarded route:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/auth -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    curl -s http://localhost:8080/auth/check-token -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Printf("    %s can log in, but its token is rejected with 401 on guarded routes\n", accounts[3].email)
}
