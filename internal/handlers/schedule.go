package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/habitguard/internal/models"
	"github.com/crucial707/habitguard/internal/store"
)

// ScheduleHandler handles schedule reads and edits. Every edit goes through
// the store's Mutate critical section.
type ScheduleHandler struct {
	Store *store.Store
}

// GetSchedule returns the full schedule.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Store.Get()
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sched)
}

// PutSchedule replaces the whole schedule. Body: the schedule object keyed by
// lowercase day names.
func (h *ScheduleHandler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	var sched models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&sched); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if fields := validateSchedule(sched); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}
	if sched == nil {
		sched = models.Schedule{}
	}

	if err := h.Store.Put(sched); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sched)
}

// AddTask appends a task to a day. Body: {"time": "08:00", "name": "Read"}.
func (h *ScheduleHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	if !models.IsDay(day) {
		JSONError(w, "invalid day", http.StatusBadRequest)
		return
	}

	var input struct {
		Time string `json:"time"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Name == "" {
		fields["name"] = "required"
	}
	if !models.ValidClock(input.Time) {
		fields["time"] = "must be HH:MM (24h)"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	task := models.Task{Time: input.Time, Name: input.Name}
	err := h.Store.Mutate(func(sched models.Schedule) (models.Schedule, error) {
		sched[day] = append(sched[day], task)
		return sched, nil
	})
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// UpdateTask edits the task at (day, index). Body: {"time": "...", "name": "..."}.
// The accomplished flag is not editable here; that is the recorder's job.
func (h *ScheduleHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	day, index, ok := taskRef(w, r)
	if !ok {
		return
	}

	var input struct {
		Time string `json:"time"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Name == "" {
		fields["name"] = "required"
	}
	if !models.ValidClock(input.Time) {
		fields["time"] = "must be HH:MM (24h)"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	var updated models.Task
	err := h.Store.Mutate(func(sched models.Schedule) (models.Schedule, error) {
		tasks := sched[day]
		if index >= len(tasks) {
			return nil, errTaskIndex
		}
		tasks[index].Time = input.Time
		tasks[index].Name = input.Name
		updated = tasks[index]
		return sched, nil
	})
	if err == errTaskIndex {
		JSONError(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteTask removes the task at (day, index).
func (h *ScheduleHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	day, index, ok := taskRef(w, r)
	if !ok {
		return
	}

	err := h.Store.Mutate(func(sched models.Schedule) (models.Schedule, error) {
		tasks := sched[day]
		if index >= len(tasks) {
			return nil, errTaskIndex
		}
		sched[day] = append(tasks[:index], tasks[index+1:]...)
		if len(sched[day]) == 0 {
			delete(sched, day)
		}
		return sched, nil
	})
	if err == errTaskIndex {
		JSONError(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var errTaskIndex = &taskIndexError{}

type taskIndexError struct{}

func (*taskIndexError) Error() string { return "task index out of range" }

// taskRef parses the {day}/{index} URL params, writing the error response on
// failure.
func taskRef(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	day := chi.URLParam(r, "day")
	if !models.IsDay(day) {
		JSONError(w, "invalid day", http.StatusBadRequest)
		return "", 0, false
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		JSONError(w, "invalid task index", http.StatusBadRequest)
		return "", 0, false
	}
	return day, index, true
}

// validateSchedule checks day names and task fields for a full replace.
func validateSchedule(sched models.Schedule) map[string]string {
	fields := make(map[string]string)
	for day, tasks := range sched {
		if !models.IsDay(day) {
			fields[day] = "unknown day"
			continue
		}
		for i, task := range tasks {
			if !models.ValidClock(task.Time) {
				fields[day+"["+strconv.Itoa(i)+"].time"] = "must be HH:MM (24h)"
			}
			if task.Name == "" {
				fields[day+"["+strconv.Itoa(i)+"].name"] = "required"
			}
		}
	}
	return fields
}
