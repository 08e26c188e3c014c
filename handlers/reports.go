package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/models"
)

func GetAllReports(w http.ResponseWriter, r *http.Request) {
	params, err := models.ParseListParams(r, "status", "mosque_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	base := config.DB.Model(&models.Report{})
	if from := r.URL.Query().Get("from"); from != "" {
		base = base.Where("report_date >= ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		base = base.Where("report_date <= ?", to)
	}

	var total int64
	if err := params.ApplyFilters(base.Session(&gorm.Session{})).Count(&total).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var reports []models.Report
	if err := params.Apply(base.Session(&gorm.Session{}).Preload("Mosque")).Find(&reports).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.ListResponse{
		Items:    reports,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

type createReportReq struct {
	MosqueID   uuid.UUID       `json:"mosqueId"`
	ReportDate models.JSONDate `json:"reportDate"`
	Status     string          `json:"status"`
}

func CreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.MosqueID == uuid.Nil {
		http.Error(w, "mosqueId is required", http.StatusBadRequest)
		return
	}
	var mosque models.Mosque
	if err := config.DB.First(&mosque, "id = ?", req.MosqueID).Error; err != nil {
		http.Error(w, "mosque not found", http.StatusBadRequest)
		return
	}

	report := models.Report{
		MosqueID:   req.MosqueID,
		ReportDate: req.ReportDate,
		Status:     req.Status,
	}
	if report.Status == "" {
		report.Status = models.ReportStatusDraft
	}
	// The claims carry the author id; no need for a user-row round trip.
	if uid, err := uuid.Parse(middleware.GetUserID(r)); err == nil {
		report.CreatedByID = &uid
	}

	if err := config.DB.Create(&report).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// loadReportAggregate fetches a report with its mosque, ordered issues,
// each issue's items (with the joined sub item for name/unit/price
// fallback) and photos.
func loadReportAggregate(db *gorm.DB, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := db.
		Preload("Mosque").
		Preload("Issues", func(q *gorm.DB) *gorm.DB { return q.Order("created_at asc") }).
		Preload("Issues.MainItem").
		Preload("Issues.Items", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		Preload("Issues.Items.SubItem").
		Preload("Issues.Photos", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReport returns the full report aggregate. A missing id is a terminal
// not-found for the caller's page; there is no retry.
func GetReport(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := loadReportAggregate(config.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// UpdateReport applies a partial field update (status, report date, map
// photo URL).
func UpdateReport(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	var report models.Report
	if err := config.DB.First(&report, "id = ?", id).Error; err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	delete(patch, "id")
	delete(patch, "mosqueId")
	delete(patch, "issues")
	delete(patch, "createdAt")
	delete(patch, "updatedAt")

	// Approval is an admin action; the persisted role decides, not the
	// token claim.
	if status, ok := patch["status"].(string); ok && status == models.ReportStatusApproved {
		if user := middleware.GetUser(r); !user.IsAdmin() {
			http.Error(w, "only admins may approve reports", http.StatusForbidden)
			return
		}
	}

	if err := config.DB.Model(&report).Updates(patch).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// deleteStep is one batch delete of the report teardown sequence.
type deleteStep struct {
	Name  string
	Model interface{}
	Cond  string
	Args  []interface{}
}

// planReportDeletion produces the fixed teardown order: child items and
// photos by issue-id batch, then the issues by id batch, then the report.
// The store does not cascade report-level deletes, so the order is what
// keeps referential integrity intact.
func planReportDeletion(reportID uuid.UUID, issueIDs []uuid.UUID) []deleteStep {
	var steps []deleteStep
	if len(issueIDs) > 0 {
		steps = append(steps,
			deleteStep{"issue_items", &models.IssueItem{}, "issue_id IN ?", []interface{}{issueIDs}},
			deleteStep{"issue_photos", &models.IssuePhoto{}, "issue_id IN ?", []interface{}{issueIDs}},
			deleteStep{"report_issues", &models.Issue{}, "id IN ?", []interface{}{issueIDs}},
		)
	}
	steps = append(steps,
		deleteStep{"reports", &models.Report{}, "id = ?", []interface{}{reportID}})
	return steps
}

// DeleteReport removes a report together with all descendant issues,
// items, and photos in one transaction.
func DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	var report models.Report
	if err := config.DB.First(&report, "id = ?", id).Error; err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	var issueIDs []uuid.UUID
	if err := config.DB.Model(&models.Issue{}).
		Where("report_id = ?", id).
		Pluck("id", &issueIDs).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, step := range planReportDeletion(id, issueIDs) {
			if err := tx.Unscoped().Where(step.Cond, step.Args...).Delete(step.Model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
