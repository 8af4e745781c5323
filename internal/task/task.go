// Package task implements the quick helpers for a task database: add a
// task, list them, and toggle their checkbox by list position.
package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notesync/notesync/internal/markdown"
	"github.com/notesync/notesync/internal/notion"
)

// Service wraps the API client with one database's coordinates. The
// title and checkbox property names come from the database config.
type Service struct {
	client           *notion.Client
	databaseID       string
	titleProperty    string
	checkboxProperty string
}

func NewService(client *notion.Client, databaseID, titleProperty, checkboxProperty string) *Service {
	return &Service{
		client:           client,
		databaseID:       databaseID,
		titleProperty:    titleProperty,
		checkboxProperty: checkboxProperty,
	}
}

// Task is one row of the task database, addressed by its position in the
// query result. Check and uncheck take that position, so List and
// SetDone must see the same ordering; the API returns rows in a stable
// order as long as the database is not edited in between.
type Task struct {
	Index int
	ID    string
	Title string
	Done  bool
}

// List returns every row in query order. Rows with an empty title are
// included so positions stay aligned with what the API returned; callers
// decide whether to display them.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	pages, err := s.client.QueryDatabaseAll(ctx, s.databaseID, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(pages))
	for i, page := range pages {
		var title string
		var done bool
		if prop, ok := page.Properties[s.titleProperty]; ok {
			title = prop.PlainText()
		}
		if prop, ok := page.Properties[s.checkboxProperty]; ok {
			done = prop.Checked()
		}
		tasks = append(tasks, Task{Index: i, ID: page.ID, Title: title, Done: done})
	}
	return tasks, nil
}

// Add creates a task with its checkbox off. Non-empty content is parsed
// as markdown and appended to the new page in a second call.
func (s *Service) Add(ctx context.Context, title, content string) (*notion.Page, error) {
	page, err := s.client.CreatePage(ctx, &notion.CreatePageRequest{
		Parent: notion.Parent{DatabaseID: s.databaseID},
		Properties: map[string]notion.PropertyValue{
			s.titleProperty:    notion.NewTitleProperty(title),
			s.checkboxProperty: notion.NewCheckboxProperty(false),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	slog.Info("task created", "id", page.ID, "title", title)

	if content != "" {
		if _, err := s.client.AppendBlockChildren(ctx, page.ID, markdown.ToBlocks(content)); err != nil {
			return page, fmt.Errorf("add content to task %s: %w", page.ID, err)
		}
	}
	return page, nil
}

// SetDone sets the checkbox of the task at index and returns it.
func (s *Service) SetDone(ctx context.Context, index int, done bool) (*Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(tasks) {
		return nil, fmt.Errorf("task index %d out of range, have %d tasks", index, len(tasks))
	}

	t := tasks[index]
	if _, err := s.client.UpdatePageCheckbox(ctx, t.ID, s.checkboxProperty, done); err != nil {
		return nil, fmt.Errorf("update task %d: %w", index, err)
	}
	t.Done = done
	return &t, nil
}
