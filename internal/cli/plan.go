package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"floorplan/internal/adjacency/models"
)

// ============================================================
// Plan files
// ============================================================

// Plan содержимое файла плана. JSON читается тем же разборщиком, что и YAML.
type Plan struct {
	Rooms       []models.Room           `yaml:"rooms" json:"rooms"`
	Connections []models.RoomConnection `yaml:"connections" json:"connections"`
	Doors       []models.Door           `yaml:"doors" json:"doors"`
}

// PlanError ошибка загрузки плана с кодом для вывода.
type PlanError struct {
	Code    string
	Message string
	Err     error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// LoadPlan читает и проверяет план.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &PlanError{Code: ErrCodeNotFound, Message: "plan not found: " + path}
		}
		return nil, &PlanError{Code: ErrCodeNotFound, Message: "read plan", Err: err}
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, &PlanError{Code: ErrCodeParse, Message: "parse plan", Err: err}
	}

	seen := make(map[string]struct{}, len(plan.Rooms))
	for _, room := range plan.Rooms {
		if err := room.Validate(); err != nil {
			return nil, &PlanError{Code: ErrCodeInvalidPlan, Message: "invalid room", Err: err}
		}
		if _, dup := seen[room.ID]; dup {
			return nil, &PlanError{Code: ErrCodeInvalidPlan, Message: "duplicate room id " + room.ID}
		}
		seen[room.ID] = struct{}{}
	}

	if plan.Rooms == nil {
		plan.Rooms = []models.Room{}
	}
	if plan.Connections == nil {
		plan.Connections = []models.RoomConnection{}
	}
	for i := range plan.Connections {
		if plan.Connections[i].Doors == nil {
			plan.Connections[i].Doors = []string{}
		}
	}
	if plan.Doors == nil {
		plan.Doors = []models.Door{}
	}
	return &plan, nil
}

// loadPlanOrReport загружает план; ошибку печатает в выбранном формате и возвращает как ExitError.
func loadPlanOrReport(f *OutputFormatter, path string) (*Plan, error) {
	plan, err := LoadPlan(path)
	if err != nil {
		code := ErrCodeParse
		var planErr *PlanError
		if errors.As(err, &planErr) {
			code = planErr.Code
		}
		_ = f.Error(code, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, code, err)
	}
	f.VerboseLog("loaded %s: %d rooms, %d connections, %d doors",
		path, len(plan.Rooms), len(plan.Connections), len(plan.Doors))
	return plan, nil
}
