package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/wattzwebdesign/simply-qr/internal/model"
)

// AnalyticsService aggregates scan events for the dashboard. All queries
// are scoped to the requesting user's codes.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type TimePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type BreakdownItem struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type CountryStat struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	City        string `json:"city,omitempty"`
	Count       int64  `json:"count"`
}

type TopCode struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ShortCode string `json:"short_code"`
	ScanCount int64  `json:"scan_count"`
}

// Overview is the account-wide analytics payload.
type Overview struct {
	TotalScans     int64           `json:"total_scans"`
	TotalCodes     int64           `json:"total_codes"`
	ScansThisMonth int64           `json:"scans_this_month"`
	ScansOverTime  []TimePoint     `json:"scans_over_time"`
	TopCodes       []TopCode       `json:"top_codes"`
	Devices        []BreakdownItem `json:"devices"`
	Browsers       []BreakdownItem `json:"browsers"`
	Systems        []BreakdownItem `json:"systems"`
	Countries      []CountryStat   `json:"countries"`
}

// CodeStats is the per-code analytics payload.
type CodeStats struct {
	TotalScans    int64           `json:"total_scans"`
	UniqueIPs     int64           `json:"unique_ips"`
	ScansOverTime []TimePoint     `json:"scans_over_time"`
	Devices       []BreakdownItem `json:"devices"`
	Browsers      []BreakdownItem `json:"browsers"`
	Systems       []BreakdownItem `json:"systems"`
	Countries     []CountryStat   `json:"countries"`
	RecentScans   []model.Scan    `json:"recent_scans"`
}

// userScans joins scans to the user's codes.
func (s *AnalyticsService) userScans(userID uint) *gorm.DB {
	return s.db.Table("scans s").
		Joins("INNER JOIN qr_codes q ON s.qr_code_id = q.id").
		Where("q.user_id = ?", userID)
}

// GetOverview aggregates stats across all of the user's codes over the
// last 30 days.
func (s *AnalyticsService) GetOverview(userID uint) (*Overview, error) {
	out := &Overview{
		ScansOverTime: make([]TimePoint, 0),
		TopCodes:      make([]TopCode, 0),
		Devices:       make([]BreakdownItem, 0),
		Browsers:      make([]BreakdownItem, 0),
		Systems:       make([]BreakdownItem, 0),
		Countries:     make([]CountryStat, 0),
	}

	var totalScans struct{ Total int64 }
	err := s.db.Model(&model.QRCode{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(scan_count), 0) as total").
		Scan(&totalScans).Error
	if err != nil {
		return nil, err
	}
	out.TotalScans = totalScans.Total

	if err := s.db.Model(&model.QRCode{}).Where("user_id = ?", userID).Count(&out.TotalCodes).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	if err := s.userScans(userID).Where("s.scanned_at >= ?", monthStart).Count(&out.ScansThisMonth).Error; err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	err = s.userScans(userID).
		Where("s.scanned_at >= ?", since).
		Select("DATE(s.scanned_at) as date, COUNT(*) as count").
		Group("DATE(s.scanned_at)").
		Order("date ASC").
		Scan(&out.ScansOverTime).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&model.QRCode{}).
		Where("user_id = ?", userID).
		Select("id, name, type, short_code, scan_count").
		Order("scan_count DESC").
		Limit(10).
		Scan(&out.TopCodes).Error
	if err != nil {
		return nil, err
	}

	for column, dest := range map[string]*[]BreakdownItem{
		"s.device_type": &out.Devices,
		"s.browser":     &out.Browsers,
		"s.os":          &out.Systems,
	} {
		err = s.userScans(userID).
			Where(column+" IS NOT NULL").
			Select(column+" as label, COUNT(*) as count").
			Group(column).
			Order("count DESC").
			Limit(10).
			Scan(dest).Error
		if err != nil {
			return nil, err
		}
	}

	err = s.userScans(userID).
		Where("s.country_code IS NOT NULL").
		Select("s.country_code, s.country_name, COUNT(*) as count").
		Group("s.country_code, s.country_name").
		Order("count DESC").
		Limit(10).
		Scan(&out.Countries).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetCodeStats aggregates stats for one code over the last `days` days.
// Returns ErrNotFound when the code does not belong to userID.
func (s *AnalyticsService) GetCodeStats(userID, codeID uint, days int) (*CodeStats, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	var owned int64
	if err := s.db.Model(&model.QRCode{}).Where("id = ? AND user_id = ?", codeID, userID).Count(&owned).Error; err != nil {
		return nil, err
	}
	if owned == 0 {
		return nil, ErrNotFound
	}

	out := &CodeStats{
		ScansOverTime: make([]TimePoint, 0),
		Devices:       make([]BreakdownItem, 0),
		Browsers:      make([]BreakdownItem, 0),
		Systems:       make([]BreakdownItem, 0),
		Countries:     make([]CountryStat, 0),
		RecentScans:   make([]model.Scan, 0),
	}

	scans := func() *gorm.DB {
		return s.db.Model(&model.Scan{}).Where("qr_code_id = ?", codeID)
	}

	if err := scans().Count(&out.TotalScans).Error; err != nil {
		return nil, err
	}
	if err := scans().Distinct("ip_address").Where("ip_address IS NOT NULL").Count(&out.UniqueIPs).Error; err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -days)
	err := scans().
		Where("scanned_at >= ?", since).
		Select("DATE(scanned_at) as date, COUNT(*) as count").
		Group("DATE(scanned_at)").
		Order("date ASC").
		Scan(&out.ScansOverTime).Error
	if err != nil {
		return nil, err
	}

	for column, dest := range map[string]*[]BreakdownItem{
		"device_type": &out.Devices,
		"browser":     &out.Browsers,
		"os":          &out.Systems,
	} {
		err = scans().
			Where(column+" IS NOT NULL").
			Select(column+" as label, COUNT(*) as count").
			Group(column).
			Order("count DESC").
			Scan(dest).Error
		if err != nil {
			return nil, err
		}
	}

	err = scans().
		Where("country_code IS NOT NULL").
		Select("country_code, country_name, city, COUNT(*) as count").
		Group("country_code, country_name, city").
		Order("count DESC").
		Scan(&out.Countries).Error
	if err != nil {
		return nil, err
	}

	err = scans().
		Order("scanned_at DESC").
		Limit(20).
		Find(&out.RecentScans).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}
