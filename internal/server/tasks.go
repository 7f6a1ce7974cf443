package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/whovibhor/PersonalOS/internal/domain"
	"github.com/whovibhor/PersonalOS/internal/engine"
	"github.com/whovibhor/PersonalOS/internal/views"
)

func registerTasks(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		View string `query:"view" enum:"all,today" default:"all"`
	}) (*struct {
		Body []domain.Task `json:"body"`
	}, error) {
		tasks, err := e.ListTasks(ctx, input.View)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Task `json:"body"`
		}{Body: nonNilSlice(tasks)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		opts := engine.TaskCreateOptions{
			Title:            input.Body.Title,
			Description:      input.Body.Description,
			Category:         input.Body.Category,
			Assignee:         input.Body.Assignee,
			Labels:           input.Body.Labels,
			StartDate:        input.Body.StartDate,
			DueDate:          input.Body.DueDate,
			EstimatedMinutes: input.Body.EstimatedMinutes,
		}
		if input.Body.Priority != nil {
			opts.Priority = *input.Body.Priority
		}
		if input.Body.Recurrence != nil {
			opts.Recurrence = *input.Body.Recurrence
		}
		t, err := e.CreateTask(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get task",
		Errors: []int{
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		t, err := e.GetTask(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}",
		Summary:     "Update task",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID   int64             `path:"id"`
		Body UpdateTaskRequest `json:"body"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		if len(bodyBytes(ctx)) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		patch := engine.TaskPatch{
			Title:            input.Body.Title,
			Description:      input.Body.Description,
			Category:         input.Body.Category,
			Assignee:         input.Body.Assignee,
			Labels:           input.Body.Labels,
			Priority:         input.Body.Priority,
			Recurrence:       input.Body.Recurrence,
			StartDate:        input.Body.StartDate,
			DueDate:          input.Body.DueDate,
			EstimatedMinutes: input.Body.EstimatedMinutes,
			Completed:        input.Body.Completed,
			CompletedOn:      input.Body.CompletedOn,
		}
		t, err := e.UpdateTask(ctx, input.ID, patch)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{id}",
		Summary:       "Delete task",
		DefaultStatus: http.StatusNoContent,
		Errors: []int{
			http.StatusNotFound,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteTask(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerTaskViews(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "task-views",
		Method:      http.MethodGet,
		Path:        "/tasks/views",
		Summary:     "Compose dashboard view snapshot",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Mode     string `query:"mode" enum:"today,week,custom" default:"today"`
		Date     string `query:"date"`
		Search   string `query:"search"`
		Status   string `query:"status" enum:"all,pending,completed" default:"all"`
		Category string `query:"category"`
		Priority int    `query:"priority"`
		Labels   string `query:"labels"`
	}) (*struct {
		Body views.Snapshot `json:"body"`
	}, error) {
		if input.Mode == string(views.ModeCustom) && input.Date == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "date is required for custom mode", nil)
		}
		var labels []string
		for _, l := range strings.Split(input.Labels, ",") {
			if l = strings.TrimSpace(l); l != "" {
				labels = append(labels, l)
			}
		}
		opts := views.Options{
			Mode:       views.DateMode(input.Mode),
			CustomDate: input.Date,
			Filters: views.Filters{
				Search:   input.Search,
				Status:   input.Status,
				Category: input.Category,
				Priority: input.Priority,
				Labels:   labels,
			},
		}
		snap, err := e.TaskViews(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body views.Snapshot `json:"body"`
		}{Body: snap}, nil
	})
}

func registerTaskHistory(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "task-history",
		Method:      http.MethodGet,
		Path:        "/task-history",
		Summary:     "List task history",
		Errors:      []int{http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" minimum:"1" maximum:"200" default:"50"`
	}) (*struct {
		Body []domain.TaskHistory `json:"body"`
	}, error) {
		entries, err := e.ListTaskHistory(ctx, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.TaskHistory `json:"body"`
		}{Body: nonNilSlice(entries)}, nil
	})
}
