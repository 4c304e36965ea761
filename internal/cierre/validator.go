package cierre

import (
	"context"
	"fmt"

	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage"
)

type StationCompleteness struct {
	StationID    uint   `json:"estacion_id"`
	Name         string `json:"nombre"`
	Code         string `json:"codigo"`
	DaysReported int    `json:"dias_reportados"`
	DaysApproved int    `json:"dias_aprobados"`
	TotalDays    int    `json:"dias_totales"`
	Complete     bool   `json:"completa"`
	MissingDays  int    `json:"dias_faltantes"`
}

type Validation struct {
	ZoneID           uint                  `json:"zona_id"`
	Year             int                   `json:"anio"`
	Month            int                   `json:"mes"`
	CanClose         bool                  `json:"puede_cerrar"`
	TotalStations    int                   `json:"total_estaciones"`
	CompleteStations int                   `json:"estaciones_completas"`
	DaysInMonth      int                   `json:"dias_mes"`
	Message          string                `json:"mensaje"`
	Stations         []StationCompleteness `json:"estaciones"`
}

// validate cuenta días aprobados por estación activa. Sin efectos; zone nil
// equivale a zona inexistente.
func validate(ctx context.Context, r storage.Reader, zoneID uint, zone *models.Zone, period models.Period) (*Validation, []models.Station, error) {
	days := period.DaysInMonth()
	v := &Validation{
		ZoneID:      zoneID,
		Year:        period.Year,
		Month:       period.Month,
		DaysInMonth: days,
		Stations:    []StationCompleteness{},
	}
	if zone == nil {
		v.Message = "Zona no encontrada"
		return v, nil, nil
	}

	stations, err := r.ActiveStations(ctx, zone.ID)
	if err != nil {
		return nil, nil, err
	}
	v.TotalStations = len(stations)
	if len(stations) == 0 {
		v.Message = "La zona no tiene estaciones activas; no se puede cerrar el período"
		return v, stations, nil
	}

	ids := make([]uint, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	counts, err := r.ReportDayCounts(ctx, ids, period.StartDate, period.EndDate)
	if err != nil {
		return nil, nil, err
	}

	for _, st := range stations {
		c := counts[st.ID]
		complete := c.Approved > 0 && c.Approved == days
		if complete {
			v.CompleteStations++
		}
		v.Stations = append(v.Stations, StationCompleteness{
			StationID:    st.ID,
			Name:         st.Name,
			Code:         st.Code,
			DaysReported: c.Reported,
			DaysApproved: c.Approved,
			TotalDays:    days,
			Complete:     complete,
			MissingDays:  days - c.Approved,
		})
	}

	v.CanClose = v.CompleteStations == v.TotalStations
	if v.CanClose {
		v.Message = fmt.Sprintf("Las %d estaciones tienen los %d días aprobados", v.TotalStations, days)
	} else {
		v.Message = fmt.Sprintf("%d de %d estaciones tienen todos los días aprobados", v.CompleteStations, v.TotalStations)
	}
	return v, stations, nil
}
