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
	"github.com/masjidops/fahs/pkg/apperr"
	"github.com/masjidops/fahs/pkg/draft"
)

// OpenIssueDraft starts a create-flow draft for a report: an empty
// template with both shapes populated. The returned draftId keys the
// photo-upload session for this draft.
func OpenIssueDraft(w http.ResponseWriter, r *http.Request) {
	reportID := middleware.PathUUID(r, "id")
	if reportID == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}
	var report models.Report
	if err := config.DB.First(&report, "id = ?", reportID).Error; err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draftId": uuid.New(),
		"draft":   draft.New(reportID),
	})
}

// OpenIssueEditDraft hydrates an edit-flow draft from a persisted issue.
func OpenIssueEditDraft(w http.ResponseWriter, r *http.Request) {
	issueID := middleware.PathUUID(r, "id")
	if issueID == uuid.Nil {
		http.Error(w, "invalid issue id", http.StatusBadRequest)
		return
	}

	var issue models.Issue
	err := config.DB.
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		Preload("Photos", func(q *gorm.DB) *gorm.DB { return q.Order("position asc") }).
		First(&issue, "id = ?", issueID).Error
	if err != nil {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draftId": uuid.New(),
		"draft":   draft.FromIssue(&issue),
	})
}

type saveIssueReq struct {
	DraftID uuid.UUID `json:"draftId"`
	draft.IssueDraft
}

// checkSaveable rejects a save while photo uploads for the draft are still
// in flight, then runs shape validation.
func checkSaveable(req *saveIssueReq) error {
	if req.DraftID != uuid.Nil && Uploads.Pending(req.DraftID) > 0 {
		return apperr.New(apperr.KindValidation, "photo uploads still in progress")
	}
	return req.Validate(SubItemPrice)
}

// CreateIssue persists a new issue with its items and photos. All three
// writes happen in one transaction so a failure can never leave an
// orphaned empty issue behind.
func CreateIssue(w http.ResponseWriter, r *http.Request) {
	reportID := middleware.PathUUID(r, "id")
	if reportID == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	var req saveIssueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	req.ReportID = reportID

	if err := checkSaveable(&req); err != nil {
		writeError(w, err)
		return
	}

	var report models.Report
	if err := config.DB.First(&report, "id = ?", reportID).Error; err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	issue := models.Issue{
		ReportID:   reportID,
		MainItemID: req.MainItemID,
		IssueType:  req.Variant,
		Notes:      req.Notes,
	}
	items, photos := req.Rows(SubItemPrice)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&issue).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].IssueID = issue.ID
		}
		for i := range photos {
			photos[i].IssueID = issue.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Create(&photos).Error
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.DraftID != uuid.Nil {
		Uploads.Release(req.DraftID)
	}
	writeJSON(w, http.StatusCreated, issue)
}

// UpdateIssue re-saves an edited issue: the row is updated, then the child
// collections are replaced wholesale (delete all, re-insert the draft's
// rows) inside one transaction. Re-saving therefore always yields the
// exact cardinality of the active shape, never accumulated stale rows.
func UpdateIssue(w http.ResponseWriter, r *http.Request) {
	issueID := middleware.PathUUID(r, "id")
	if issueID == uuid.Nil {
		http.Error(w, "invalid issue id", http.StatusBadRequest)
		return
	}

	var req saveIssueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := checkSaveable(&req); err != nil {
		writeError(w, err)
		return
	}

	var issue models.Issue
	if err := config.DB.First(&issue, "id = ?", issueID).Error; err != nil {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}

	items, photos := req.Rows(SubItemPrice)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"main_item_id": req.MainItemID,
			"issue_type":   req.Variant,
			"notes":        req.Notes,
		}
		if err := tx.Model(&issue).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.IssueItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.IssuePhoto{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].IssueID = issue.ID
		}
		for i := range photos {
			photos[i].IssueID = issue.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Create(&photos).Error
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.DraftID != uuid.Nil {
		Uploads.Release(req.DraftID)
	}
	writeJSON(w, http.StatusOK, issue)
}

// DeleteIssue removes one issue with its children. Items and photos go
// first so the store's referential constraints hold at every point.
func DeleteIssue(w http.ResponseWriter, r *http.Request) {
	issueID := middleware.PathUUID(r, "id")
	if issueID == uuid.Nil {
		http.Error(w, "invalid issue id", http.StatusBadRequest)
		return
	}

	var issue models.Issue
	if err := config.DB.First(&issue, "id = ?", issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "issue not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", issueID).Delete(&models.IssueItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issueID).Delete(&models.IssuePhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Issue{}, "id = ?", issueID).Error
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
