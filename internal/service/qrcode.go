package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wattzwebdesign/simply-qr/internal/model"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/cache"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/logger"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/shortcode"
)

// maxShortAttempts bounds collision retries in the 8-char code space before
// falling back to 12-char codes. The unique index on short_code remains the
// final arbiter under concurrent creates.
const maxShortAttempts = 5

// maxTotalAttempts caps the whole generation loop. Hitting it means the
// random source or the database is broken, not that the space is full.
const maxTotalAttempts = 8

// QRCodeService owns durable storage and uniqueness enforcement for QR
// codes. The cache handle may be nil, which disables lookup caching.
type QRCodeService struct {
	db    *gorm.DB
	cache *cache.Client
}

func NewQRCodeService(db *gorm.DB, c *cache.Client) *QRCodeService {
	return &QRCodeService{db: db, cache: c}
}

type CreateQRCodeInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	ContentFields

	ColorDark       string   `json:"color_dark"`
	ColorLight      string   `json:"color_light"`
	Size            int      `json:"size"`
	ErrorCorrection string   `json:"error_correction"`
	Tags            []string `json:"tags"`
	Folder          string   `json:"folder"`
	Notes           string   `json:"notes"`
	IsFavorite      bool     `json:"is_favorite"`
}

// Create validates input, generates a unique short code and persists the
// entry. Collisions retry with a fresh code; after maxShortAttempts the
// generator switches to the longer code space.
func (s *QRCodeService) Create(userID uint, in CreateQRCodeInput) (*model.QRCode, error) {
	if in.Name == "" || in.Type == "" {
		return nil, fmt.Errorf("name and type are required")
	}
	if !isValidQRType(in.Type) {
		return nil, fmt.Errorf("invalid qr code type: %s", in.Type)
	}
	if in.ColorDark == "" {
		in.ColorDark = "#000000"
	}
	if in.ColorLight == "" {
		in.ColorLight = "#ffffff"
	}
	if in.Size <= 0 {
		in.Size = 300
	}
	if in.ErrorCorrection == "" {
		in.ErrorCorrection = "M"
	}
	if !isValidErrorCorrection(in.ErrorCorrection) {
		return nil, fmt.Errorf("invalid error correction level: %s", in.ErrorCorrection)
	}
	if !isValidHexColor(in.ColorDark) || !isValidHexColor(in.ColorLight) {
		return nil, fmt.Errorf("invalid color format")
	}

	content := formatContent(in.Type, in.Content, in.ContentFields)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if in.Type == model.TypeURL && !isValidURL(content) {
		return nil, fmt.Errorf("invalid destination url")
	}

	tagsJSON := "[]"
	if len(in.Tags) > 0 {
		raw, err := json.Marshal(in.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %v", err)
		}
		tagsJSON = string(raw)
	}

	code := &model.QRCode{
		UserID:          userID,
		Name:            in.Name,
		Type:            in.Type,
		Content:         content,
		IsActive:        true,
		ColorDark:       in.ColorDark,
		ColorLight:      in.ColorLight,
		Size:            in.Size,
		ErrorCorrection: in.ErrorCorrection,
		Tags:            tagsJSON,
		Folder:          in.Folder,
		Notes:           in.Notes,
		IsFavorite:      in.IsFavorite,
	}
	if code.IsDynamic() {
		code.RedirectURL = content
	}

	for attempt := 1; attempt <= maxTotalAttempts; attempt++ {
		length := shortcode.DefaultLength
		if attempt > maxShortAttempts {
			length = shortcode.LongLength
		}

		sc, err := shortcode.Generate(length)
		if err != nil {
			return nil, fmt.Errorf("generate short code: %v", err)
		}

		// Best-effort pre-check; the unique index catches the race when two
		// creates pick the same code between check and insert.
		var count int64
		if err := s.db.Model(&model.QRCode{}).Where("short_code = ?", sc).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check short code: %v", err)
		}
		if count > 0 {
			logger.Warnf("short code collision on %s (attempt %d), regenerating", sc, attempt)
			continue
		}

		code.ID = 0
		code.ShortCode = sc
		err = s.db.Create(code).Error
		if err == nil {
			return code, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warnf("short code %s lost insert race (attempt %d), regenerating", sc, attempt)
			continue
		}
		return nil, fmt.Errorf("create qr code: %v", err)
	}

	return nil, fmt.Errorf("could not allocate a unique short code after %d attempts", maxTotalAttempts)
}

// GetByID returns the entry if it exists and belongs to userID.
func (s *QRCodeService) GetByID(userID, id uint) (*model.QRCode, error) {
	var code model.QRCode
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// GetByShortCode looks the entry up directly in the database, bypassing the
// cache. Repeated calls with no intervening writes return identical results.
func (s *QRCodeService) GetByShortCode(sc string) (*model.QRCode, error) {
	var code model.QRCode
	err := s.db.Where("short_code = ?", sc).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// ResolveShortCode is the redirect read path. It consults the cache first
// when one is configured and repopulates it after a database hit. Cache
// errors degrade to a database read, never to a request failure.
func (s *QRCodeService) ResolveShortCode(ctx context.Context, sc string) (*model.QRCode, error) {
	if s.cache != nil {
		code, err := s.cache.GetCode(ctx, sc)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warnf("cache read for %s failed: %v", sc, err)
		}
	}

	code, err := s.GetByShortCode(sc)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCode(ctx, code); err != nil {
			logger.Warnf("cache write for %s failed: %v", sc, err)
		}
	}
	return code, nil
}

type ListFilters struct {
	Search   string
	Folder   string
	Favorite bool
	Sort     string
	Order    string
}

var listSortFields = map[string]bool{
	"name": true, "created_at": true, "updated_at": true, "type": true, "scan_count": true,
}

// List returns the user's codes with optional filtering and sorting.
func (s *QRCodeService) List(userID uint, f ListFilters) ([]model.QRCode, error) {
	query := s.db.Where("user_id = ?", userID)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("name LIKE ? OR content LIKE ? OR notes LIKE ?", pattern, pattern, pattern)
	}
	if f.Folder != "" {
		query = query.Where("folder = ?", f.Folder)
	}
	if f.Favorite {
		query = query.Where("is_favorite = ?", true)
	}

	sortField := "created_at"
	if listSortFields[f.Sort] {
		sortField = f.Sort
	}
	order := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		order = "ASC"
	}

	var codes []model.QRCode
	if err := query.Order(sortField + " " + order).Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Columns a client may change after creation. Everything else, short_code
// and scan counters included, is ignored rather than rejected.
var updatableColumns = map[string]bool{
	"name": true, "content": true, "tags": true, "folder": true, "notes": true,
	"color_dark": true, "color_light": true, "size": true, "error_correction": true,
	"is_favorite": true, "is_active": true, "redirect_url": true,
}

// Update applies the allow-listed subset of updates to the user's entry and
// invalidates the lookup cache. Updating a url code's content refreshes the
// redirect destination as well.
func (s *QRCodeService) Update(userID, id uint, updates map[string]interface{}) (*model.QRCode, error) {
	existing, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	filtered := make(map[string]interface{})
	for key, value := range updates {
		if !updatableColumns[key] {
			continue
		}
		if key == "tags" {
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("encode tags: %v", err)
			}
			filtered[key] = string(raw)
			continue
		}
		filtered[key] = value
	}

	if len(filtered) == 0 {
		return nil, fmt.Errorf("no valid fields to update")
	}

	if ec, ok := filtered["error_correction"].(string); ok && !isValidErrorCorrection(ec) {
		return nil, fmt.Errorf("invalid error correction level: %s", ec)
	}
	for _, key := range []string{"color_dark", "color_light"} {
		if color, ok := filtered[key].(string); ok && !isValidHexColor(color) {
			return nil, fmt.Errorf("invalid color format")
		}
	}

	// Content changes on dynamic codes move the destination with them.
	if content, ok := filtered["content"].(string); ok && existing.IsDynamic() {
		if !isValidURL(content) {
			return nil, fmt.Errorf("invalid destination url")
		}
		filtered["redirect_url"] = content
	}

	err = s.db.Model(&model.QRCode{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(filtered).Error
	if err != nil {
		return nil, fmt.Errorf("update qr code: %v", err)
	}

	s.invalidate(existing.ShortCode)
	return s.GetByID(userID, id)
}

// Delete removes the entry and all its scan events.
func (s *QRCodeService) Delete(userID, id uint) error {
	existing, err := s.GetByID(userID, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("qr_code_id = ?", id).Delete(&model.Scan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.QRCode{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete qr code: %v", err)
	}

	s.invalidate(existing.ShortCode)
	return nil
}

// IncrementScan bumps the denormalized counter and stamps the last scan
// time in a single statement, so N concurrent scans produce exactly +N.
func (s *QRCodeService) IncrementScan(id uint) error {
	return s.db.Model(&model.QRCode{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"scan_count":      gorm.Expr("scan_count + ?", 1),
			"last_scanned_at": time.Now(),
		}).Error
}

// CreateScan appends one scan event row.
func (s *QRCodeService) CreateScan(scan *model.Scan) error {
	return s.db.Create(scan).Error
}

func (s *QRCodeService) invalidate(sc string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, sc); err != nil {
		logger.Warnf("cache invalidation for %s failed: %v", sc, err)
	}
}
