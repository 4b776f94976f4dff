// Seed creates a demo user with sample tasks. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"taskify-api/internal/config"
	"taskify-api/internal/database"
	"taskify-api/internal/models"
	"taskify-api/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "demo@example.com", "demo user email")
	password := flag.String("password", "password", "demo user password")
	count := flag.Int("tasks", 25, "number of tasks to create")
	flag.Parse()

	_ = config.LoadEnvFile()
	ctx := context.Background()
	db := database.DB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)
	user, err := users.FindByEmail(ctx, *email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, herr := bcrypt.GenerateFromPassword([]byte(*password), config.Get().BcryptCost)
		if herr != nil {
			fmt.Fprintln(os.Stderr, "Hash failed:", herr)
			os.Exit(1)
		}
		user = &models.User{Name: "Demo User", Email: *email, PasswordHash: string(hash)}
		err = users.Create(ctx, user)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "User failed:", err)
		os.Exit(1)
	}

	tasks := repository.NewTaskRepository(db)
	start := time.Now()
	for i := 1; i <= *count; i++ {
		desc := fmt.Sprintf("Description for task %d", i)
		task := &models.Task{
			UserID:      user.ID,
			Title:       fmt.Sprintf("Task %d", i),
			Description: &desc,
			Status:      models.TaskStatuses[i%len(models.TaskStatuses)],
		}
		if err := tasks.Create(ctx, task); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		fmt.Printf("\rInserted %d / %d", i, *count)
	}

	fmt.Printf("\nDone: %d tasks for %s in %v\n", *count, user.Email, time.Since(start))
}
