package handlers

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/masjidops/fahs/config"
	"github.com/masjidops/fahs/logger"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/models"
)

// Page geometry mirrors the on-screen template: A4 landscape (the
// 1123x794px preview at 96 DPI), zero margin, one PDF page per report
// page marker.
const (
	pdfPageW = 297.0 // mm
	pdfPageH = 210.0
	pdfPad   = 12.0

	photoFetchTimeout = 8 * time.Second
)

// ExportReportPDF renders a report into a paginated PDF. With
// ?deliver=storage the document is stored as an object and its URL
// returned; otherwise it downloads directly.
func ExportReportPDF(w http.ResponseWriter, r *http.Request) {
	id := middleware.PathUUID(r, "id")
	if id == uuid.Nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	report, err := loadReportAggregate(config.DB, id)
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	buf, err := buildReportPDF(report)
	if err != nil {
		// no retry, no partial output
		logger.Log.WithError(err).Error("pdf render failed")
		http.Error(w, "pdf render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("deliver") == "storage" {
		path := fmt.Sprintf("exports/report-%s.pdf", report.ID)
		url, err := Store.Put(r.Context(), path, "application/pdf", bytes.NewReader(buf.Bytes()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url, "path": path})
		return
	}

	filename := fmt.Sprintf("report_%s_%s.pdf",
		sanitizeFilename(report.Mosque.Name),
		time.Time(report.ReportDate).Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// buildReportPDF is the in-memory entry point shared by download and
// storage delivery.
func buildReportPDF(report *models.Report) (*bytes.Buffer, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	renderCoverPage(pdf, report)
	for i := range report.Issues {
		renderIssuePage(pdf, report, &report.Issues[i], i+1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func renderCoverPage(pdf *gofpdf.Fpdf, report *models.Report) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(pdfPad, pdfPad)
	pdf.CellFormat(pdfPageW-2*pdfPad, 12, "Facility Inspection Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(pdfPad, 34)
	m := report.Mosque
	lines := []string{
		fmt.Sprintf("Mosque: %s", m.Name),
		fmt.Sprintf("Supervisor: %s  (%s)", m.SupervisorName, m.SupervisorPhone),
		fmt.Sprintf("Address: %s, %s, %s", m.Street, m.District, m.City),
		fmt.Sprintf("Report date: %s", time.Time(report.ReportDate).Format("2006-01-02")),
		fmt.Sprintf("Status: %s", report.Status),
		fmt.Sprintf("Issues recorded: %d", len(report.Issues)),
		fmt.Sprintf("Estimated total: %.2f", report.Total()),
	}
	for _, line := range lines {
		pdf.CellFormat(pdfPageW-2*pdfPad, 8, line, "", 1, "L", false, 0, "")
		pdf.SetX(pdfPad)
	}

	if report.MapPhotoURL != nil && *report.MapPhotoURL != "" {
		placeImage(pdf, *report.MapPhotoURL, pdfPageW/2, 95, pdfPageW/2-pdfPad, pdfPageH-95-pdfPad)
	}
}

func renderIssuePage(pdf *gofpdf.Fpdf, report *models.Report, issue *models.Issue, n int) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pdfPad, pdfPad)
	title := fmt.Sprintf("Issue %d: %s", n, issue.MainItem.NameEn)
	pdf.CellFormat(pdfPageW-2*pdfPad, 10, title, "B", 1, "L", false, 0, "")

	// items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(pdfPad, 28)
	colW := []float64{110, 30, 35, 35, 35}
	headers := []string{"Item", "Unit", "Quantity", "Unit price", "Total"}
	for i, h := range headers {
		pdf.CellFormat(colW[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i := range issue.Items {
		it := &issue.Items[i]
		pdf.SetX(pdfPad)
		pdf.CellFormat(colW[0], 8, it.SubItem.NameEn, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 8, it.SubItem.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, fmt.Sprintf("%.2f", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], 8, fmt.Sprintf("%.2f", it.EffectiveUnitPrice()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 8, fmt.Sprintf("%.2f", it.LineTotal()), "1", 1, "R", false, 0, "")
	}

	if issue.Notes != "" {
		pdf.SetXY(pdfPad, pdf.GetY()+4)
		pdf.MultiCell(pdfPageW-2*pdfPad, 6, "Notes: "+issue.Notes, "", "L", false)
	}

	// photo strip along the bottom
	photoW := (pdfPageW - 2*pdfPad - 16) / 3
	photoH := 72.0
	y := pdfPageH - pdfPad - photoH
	for i, ph := range issue.Photos {
		if i >= 3 {
			break
		}
		x := pdfPad + float64(i)*(photoW+8)
		placeImage(pdf, ph.URL, x, y, photoW, photoH)
	}
}

// placeImage embeds a remote or local photo. A fetch failure, or a format
// the renderer cannot embed, draws an empty placeholder box instead of
// aborting the whole document.
func placeImage(pdf *gofpdf.Fpdf, url string, x, y, w, h float64) {
	data, err := fetchImage(url)
	if err != nil {
		logger.Log.WithError(err).Warnf("could not fetch photo %s", url)
		pdf.Rect(x, y, w, h, "D")
		return
	}

	imgType, payload, err := pdfImageData(data)
	if err != nil {
		logger.Log.WithError(err).Warnf("could not embed photo %s", url)
		pdf.Rect(x, y, w, h, "D")
		return
	}
	opts := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: false}
	pdf.RegisterImageOptionsReader(url, opts, bytes.NewReader(payload))
	pdf.ImageOptions(url, x, y, w, h, false, opts, 0, "")
}

// pdfImageData normalizes photo bytes into a format the renderer embeds
// natively. JPEG and PNG pass through as-is; any other decodable format
// (webp uploads keep their native bytes in storage) is transcoded to
// JPEG. Undecodable data (heif) is an error so the caller can fall back
// to the placeholder box.
func pdfImageData(data []byte) (string, []byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return "JPG", data, nil
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return "PNG", data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", nil, err
	}
	return "JPG", buf.Bytes(), nil
}

func fetchImage(url string) ([]byte, error) {
	// local-disk objects are served under /uploads/
	if strings.HasPrefix(url, "/uploads/") {
		return os.ReadFile(filepath.Join("./uploads", filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
	}

	client := &http.Client{Timeout: photoFetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo fetch returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// sanitizeFilename keeps download filenames header-safe.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
