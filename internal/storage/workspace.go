package storage

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// Project is a client account. The Monthly* fields are deliverable targets
// per month; MonthlyVideos/Disenos/Fotos are the older general-category
// targets, used only when no specific target is set.
type Project struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspace_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	PausedAt    string  `json:"paused_at,omitempty"`
	MonthlyFee  float64 `json:"monthly_fee"`

	MonthlyReelCorto      float64 `json:"monthly_reel_corto"`
	MonthlyReelLargo      float64 `json:"monthly_reel_largo"`
	MonthlyDisenoSimple   float64 `json:"monthly_diseno_simple"`
	MonthlyDisenoComplejo float64 `json:"monthly_diseno_complejo"`
	MonthlyFotoSimple     float64 `json:"monthly_foto_simple"`
	MonthlyFotoElaborada  float64 `json:"monthly_foto_elaborada"`
	MonthlySesiones       float64 `json:"monthly_sesiones"`

	MonthlyVideos  float64 `json:"monthly_videos"`
	MonthlyDisenos float64 `json:"monthly_disenos"`
	MonthlyFotos   float64 `json:"monthly_fotos"`

	Version int `json:"version"`
}

// SpecificTargets returns targets keyed by specific work type.
func (p Project) SpecificTargets() map[string]float64 {
	return map[string]float64{
		"reel_corto":      p.MonthlyReelCorto,
		"reel_largo":      p.MonthlyReelLargo,
		"diseno_simple":   p.MonthlyDisenoSimple,
		"diseno_complejo": p.MonthlyDisenoComplejo,
		"foto_simple":     p.MonthlyFotoSimple,
		"foto_elaborada":  p.MonthlyFotoElaborada,
	}
}

// GeneralTargets returns the legacy targets keyed by general category.
func (p Project) GeneralTargets() map[string]float64 {
	return map[string]float64{
		"video":  p.MonthlyVideos,
		"diseno": p.MonthlyDisenos,
		"foto":   p.MonthlyFotos,
	}
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type Task struct {
	ID            string  `json:"id"`
	WorkspaceID   string  `json:"workspace_id" validate:"required"`
	ProjectID     string  `json:"project_id"`
	Title         string  `json:"title" validate:"required"`
	WorkType      string  `json:"work_type"`
	Status        string  `json:"status" validate:"required"`
	AssigneeID    string  `json:"assignee_id"`
	EstimateHours float64 `json:"estimate_hours" validate:"gte=0"`
	DueDate       string  `json:"due_date" validate:"omitempty,isodate"`
	CompletedAt   string  `json:"completed_at"`
	Version       int     `json:"version"`
	UpdatedBy     string  `json:"updated_by,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// IsCompleted reports whether the task counts as worked hours.
func (t Task) IsCompleted() bool {
	switch t.Status {
	case "done", "completed", "completado", "terminado":
		return true
	}
	return false
}
