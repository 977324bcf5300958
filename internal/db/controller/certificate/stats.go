package certificate

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

// Stats is the certificate overview. Counts are computed on every call.
type Stats struct {
	Total           int64            `json:"total"`
	Active          int64            `json:"active"`
	Expired         int64            `json:"expired"`
	Revoked         int64            `json:"revoked"`
	IssuedThisMonth int64            `json:"issuedThisMonth"`
	ByStatus        map[string]int64 `json:"byStatus"`
	ByType          map[string]int64 `json:"byType"`
}

type groupCount struct {
	Name  string
	Total int64
}

// Stats aggregates the certificates table.
//
//   - active: status Active and valid until today or later, or open ended
//   - expired: valid until before today, or status Expired
//   - revoked: status Revoked or Cancelled
//
// Status comparisons ignore case.
func (c *Controller) Stats(ctx context.Context) (*Stats, error) {
	tx, cancel := c.store.WithTimeout(ctx)
	defer cancel()

	now := c.now()
	today := models.NewDate(now).String()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthStart := models.NewDate(month).String()
	nextMonthStart := models.NewDate(month.AddDate(0, 1, 0)).String()

	stats := &Stats{
		ByStatus: map[string]int64{},
		ByType:   map[string]int64{},
	}

	counts := []struct {
		dst   *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&stats.Active, func(q *gorm.DB) *gorm.DB {
			return q.Where("LOWER(status) = ?", "active").
				Where("valid_until IS NULL OR valid_until >= ?", today)
		}},
		{&stats.Expired, func(q *gorm.DB) *gorm.DB {
			return q.Where("(valid_until IS NOT NULL AND valid_until < ?) OR LOWER(status) = ?", today, "expired")
		}},
		{&stats.Revoked, func(q *gorm.DB) *gorm.DB {
			return q.Where("LOWER(status) IN ?", []string{"revoked", "cancelled"})
		}},
		{&stats.IssuedThisMonth, func(q *gorm.DB) *gorm.DB {
			return q.Where("issued_date >= ? AND issued_date < ?", monthStart, nextMonthStart)
		}},
	}

	for _, cnt := range counts {
		if result := cnt.query(tx.Model(&models.Certificate{})).Count(cnt.dst); result.Error != nil {
			return nil, result.Error
		}
	}

	groups := []struct {
		column string
		dst    map[string]int64
	}{
		{"status", stats.ByStatus},
		{"certificate_type", stats.ByType},
	}

	for _, g := range groups {
		var rows []groupCount

		result := tx.Model(&models.Certificate{}).
			Select(g.column + " AS name, COUNT(*) AS total").
			Group(g.column).
			Scan(&rows)
		if result.Error != nil {
			return nil, result.Error
		}

		for _, r := range rows {
			g.dst[r.Name] += r.Total
		}
	}

	return stats, nil
}
