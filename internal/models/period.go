package models

import "time"

// Period identifica un mes calendario. Las fechas se guardan como días UTC;
// EndDate es el último día del mes (inclusive).
type Period struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_periods_year_month" json:"anio"`
	Month     int       `gorm:"not null;uniqueIndex:idx_periods_year_month" json:"mes"`
	StartDate time.Time `gorm:"type:date;not null" json:"fecha_inicio"`
	EndDate   time.Time `gorm:"type:date;not null" json:"fecha_fin"`
	CreatedAt time.Time `json:"-"`
}

// NewPeriod arma el período (sin persistir) para year/month.
func NewPeriod(year, month int) Period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Year:      year,
		Month:     month,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, -1),
	}
}

// DaysInMonth devuelve la cantidad de días calendario del período.
func (p Period) DaysInMonth() int {
	return p.EndDate.Day()
}

// Contains indica si la fecha (día UTC) cae dentro del período.
func (p Period) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}

// DateOnly trunca a medianoche UTC conservando el día calendario de t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta "2006-01-02" como día UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
