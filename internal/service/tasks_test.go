package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"taskify-api/internal/models"
)

func TestTaskService_CreateDefaultsAndOwner(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "a@example.com")

	task, err := f.task.Create(context.Background(), u, TaskInput{Title: "Test Task", Description: strPtr("This is a test task")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.UserID != u.ID || task.Status != models.StatusToDo || task.ID == "" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Description == nil || *task.Description != "This is a test task" {
		t.Fatalf("description = %v", task.Description)
	}
}

func TestTaskService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "a@example.com")

	_, err := f.task.Create(context.Background(), u, TaskInput{})
	if msgs := fieldMessages(t, err, "title"); msgs[0] != "The title field is required." {
		t.Fatalf("message = %q", msgs[0])
	}
	_, err = f.task.Create(context.Background(), u, TaskInput{Title: strings.Repeat("x", 256)})
	if msgs := fieldMessages(t, err, "title"); msgs[0] != "The title must not be greater than 255 characters." {
		t.Fatalf("message = %q", msgs[0])
	}
	if _, err := f.task.Create(context.Background(), u, TaskInput{Title: strings.Repeat("é", 255)}); err != nil {
		t.Fatalf("255 characters should be accepted: %v", err)
	}
}

func TestTaskService_TrimsInput(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "a@example.com")
	ctx := context.Background()

	_, err := f.task.Create(ctx, u, TaskInput{Title: "   "})
	if msgs := fieldMessages(t, err, "title"); msgs[0] != "The title field is required." {
		t.Fatalf("message = %q", msgs[0])
	}

	task, err := f.task.Create(ctx, u, TaskInput{Title: "  Buy milk ", Description: strPtr("")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Title != "Buy milk" || task.Description != nil {
		t.Fatalf("title = %q, description = %v", task.Title, task.Description)
	}

	updated, err := f.task.Update(ctx, task.ID, u, TaskInput{Title: "Buy milk", Description: strPtr("  two litres  ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description == nil || *updated.Description != "two litres" {
		t.Fatalf("description = %v", updated.Description)
	}
	updated, err = f.task.Update(ctx, task.ID, u, TaskInput{Title: "Buy milk", Description: strPtr(" \t ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != nil {
		t.Fatalf("blank description stored as %q, want null", *updated.Description)
	}
}

func TestTaskService_ListNewestFirstAndScoped(t *testing.T) {
	f := newFixture(t)
	a, _ := f.register(t, "a@example.com")
	b, _ := f.register(t, "b@example.com")
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		if _, err := f.task.Create(ctx, a, TaskInput{Title: title}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := f.task.Create(ctx, b, TaskInput{Title: "other"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks, err := f.task.List(ctx, a)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var titles []string
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	if want := []string{"three", "two", "one"}; !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}

	fresh, _ := f.register(t, "c@example.com")
	empty, err := f.task.List(ctx, fresh)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List(empty) = %v, %v; want non-nil empty slice", empty, err)
	}
}

func TestTaskService_OwnershipErrors(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.register(t, "owner@example.com")
	intruder, _ := f.register(t, "intruder@example.com")
	ctx := context.Background()
	task, err := f.task.Create(ctx, owner, TaskInput{Title: "mine", Description: strPtr("keep")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.task.Show(ctx, task.ID, intruder); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Show err = %v, want ErrForbidden", err)
	}
	if _, err := f.task.Update(ctx, task.ID, intruder, TaskInput{Title: "hacked"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Update err = %v, want ErrForbidden", err)
	}
	// Authorization precedes validation.
	if _, err := f.task.Update(ctx, task.ID, intruder, TaskInput{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Update invalid err = %v, want ErrForbidden", err)
	}
	if err := f.task.Delete(ctx, task.ID, intruder); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete err = %v, want ErrForbidden", err)
	}

	stored, err := f.task.Show(ctx, task.ID, owner)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if stored.Title != "mine" || stored.Description == nil || *stored.Description != "keep" {
		t.Fatalf("task modified by intruder: %+v", stored)
	}

	if _, err := f.task.Show(ctx, "missing", owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Show missing err = %v, want ErrNotFound", err)
	}
}

func TestTaskService_UpdateIsFullReplace(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "a@example.com")
	ctx := context.Background()
	task, _ := f.task.Create(ctx, u, TaskInput{Title: "t", Description: strPtr("d")})

	updated, err := f.task.Update(ctx, task.ID, u, TaskInput{Title: "t2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "t2" || updated.Description != nil {
		t.Fatalf("updated = %+v, want title t2 and nil description", updated)
	}
	if updated.UserID != u.ID || updated.Status != models.StatusToDo {
		t.Fatalf("owner or status changed: %+v", updated)
	}
}

func TestTaskService_DeleteThenShowNotFound(t *testing.T) {
	f := newFixture(t)
	u, _ := f.register(t, "a@example.com")
	ctx := context.Background()
	task, _ := f.task.Create(ctx, u, TaskInput{Title: "t"})

	if err := f.task.Delete(ctx, task.ID, u); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.task.Show(ctx, task.ID, u); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Show after delete err = %v, want ErrNotFound", err)
	}
	want := []string{models.EventTaskCreated, models.EventTaskDeleted}
	if got := f.events.Types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}
