package cierre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reporteventas-backend/internal/audit"
	"reporteventas-backend/internal/auth"
	"reporteventas-backend/internal/metrics"
	"reporteventas-backend/internal/models"
	"reporteventas-backend/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service struct {
	repo   storage.Repository
	locker Locker
	log    *logrus.Logger
	now    func() time.Time
}

func NewService(repo storage.Repository, locker Locker, logger *logrus.Logger) *Service {
	if locker == nil {
		locker = NoopLocker()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{repo: repo, locker: locker, log: logger, now: time.Now}
}

type State struct {
	Period   models.Period         `json:"periodo"`
	Closure  *models.ClosurePeriod `json:"cierre"`
	IsClosed bool                  `json:"cerrado"`
}

type CloseResult struct {
	Closure           models.ClosurePeriod
	Period            models.Period
	StationsProcessed int
	Summaries         []models.MonthlySummary
}

type ReopenResult struct {
	Closure          models.ClosurePeriod
	Period           models.Period
	SummariesDeleted int64
}

// fail deja pasar los errores del motor y envuelve el resto como persistencia.
func (s *Service) fail(op string, fields logrus.Fields, err error) error {
	if isDomain(err) {
		if errors.Is(err, ErrPersistence) {
			s.log.WithFields(fields).WithField("op", op).Error(err.Error())
		}
		return err
	}
	wrapped := persistence(op, err)
	s.log.WithFields(fields).WithField("op", op).Error(wrapped.Error())
	return wrapped
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrPersistence):
		return metrics.ResultError
	default:
		return metrics.ResultRejected
	}
}

func (s *Service) Validate(ctx context.Context, actor auth.Actor, zoneID uint, year, month int) (*Validation, error) {
	if err := CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.CanAccessZone(zoneID) {
		return nil, ErrAuthorization
	}

	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month}
	zone, err := s.repo.FindZone(ctx, zoneID)
	if err != nil {
		return nil, s.fail("buscar zona", fields, err)
	}
	v, _, err := validate(ctx, s.repo, zoneID, zone, models.NewPeriod(year, month))
	if err != nil {
		return nil, s.fail("validar período", fields, err)
	}
	metrics.ObserveValidation(v.CanClose)
	return v, nil
}

func (s *Service) GetState(ctx context.Context, actor auth.Actor, zoneID uint, year, month int) (*State, error) {
	if err := CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.CanAccessZone(zoneID) {
		return nil, ErrAuthorization
	}

	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month}
	zone, err := s.repo.FindZone(ctx, zoneID)
	if err != nil {
		return nil, s.fail("buscar zona", fields, err)
	}
	if zone == nil {
		return nil, notFound("zona")
	}

	period, err := s.repo.FindPeriod(ctx, year, month)
	if err != nil {
		return nil, s.fail("buscar período", fields, err)
	}
	if period == nil {
		p := models.NewPeriod(year, month)
		return &State{Period: p}, nil
	}

	closure, err := s.repo.FindClosure(ctx, zoneID, period.ID)
	if err != nil {
		return nil, s.fail("buscar cierre", fields, err)
	}
	st := &State{Period: *period, Closure: closure}
	if closure != nil {
		st.IsClosed = closure.IsClosed
	}
	return st, nil
}

// Close valida y cierra el período en una sola transacción, reemplazando los
// resúmenes mensuales de todas las estaciones activas.
func (s *Service) Close(ctx context.Context, actor auth.Actor, zoneID uint, year, month int, observations string) (*CloseResult, error) {
	if err := CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.CanAccessZone(zoneID) {
		return nil, ErrAuthorization
	}

	start := time.Now()
	res, err := s.close(ctx, actor, zoneID, year, month, observations)
	metrics.ObserveClosing(metrics.OperationClose, resultLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"zona_id":  zoneID,
		"anio":     year,
		"mes":      month,
		"user_id":  actor.UserID,
		"stations": res.StationsProcessed,
	}).Info("período cerrado")
	return res, nil
}

func (s *Service) close(ctx context.Context, actor auth.Actor, zoneID uint, year, month int, observations string) (*CloseResult, error) {
	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month, "user_id": actor.UserID}

	release, err := s.locker.Obtain(ctx, lockKey(zoneID, year, month))
	if err != nil {
		return nil, s.fail("obtener candado", fields, err)
	}
	defer release()

	var res CloseResult
	err = s.repo.Transaction(ctx, func(tx storage.Tx) error {
		zone, err := tx.FindZone(ctx, zoneID)
		if err != nil {
			return err
		}
		if zone == nil {
			return notFound("zona")
		}

		period, err := tx.EnsurePeriod(ctx, year, month)
		if err != nil {
			return err
		}
		closure, err := tx.LockClosure(ctx, zoneID, period.ID)
		if err != nil {
			return err
		}
		if closure.IsClosed {
			return conflict("el período ya está cerrado; debe reabrirse antes de volver a cerrarlo")
		}
		before := *closure

		// se valida de nuevo con la fila bloqueada
		v, stations, err := validate(ctx, tx, zoneID, zone, *period)
		if err != nil {
			return err
		}
		if !v.CanClose {
			return &ValidationFailure{Result: v}
		}

		ids := make([]uint, 0, len(stations))
		for _, st := range stations {
			ids = append(ids, st.ID)
		}
		reports, err := tx.ApprovedReports(ctx, ids, period.StartDate, period.EndDate)
		if err != nil {
			return err
		}
		byStation := groupByStation(reports)

		rows := make([]models.MonthlySummary, 0, len(stations))
		for _, st := range stations {
			row := Summarize(zoneID, period.ID, st.ID, byStation[st.ID])
			row.ClosureID = closure.ID
			rows = append(rows, row)
		}
		if err := tx.ReplaceSummaries(ctx, zoneID, period.ID, rows); err != nil {
			return err
		}

		now := s.now().UTC()
		userID := actor.UserID
		closure.IsClosed = true
		closure.ClosedAt = &now
		closure.ClosedBy = &userID
		closure.Observations = observations
		if err := tx.SaveClosure(ctx, closure); err != nil {
			return err
		}

		if err := tx.RecordAudit(ctx, audit.NewEntry(audit.LogOptions{
			ZoneID:      &zoneID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  audit.EntityClosure,
			EntityID:    closure.ID,
			Action:      models.AuditActionClose,
			Description: fmt.Sprintf("Cierre de %s %04d-%02d (%d estaciones)", zone.Name, year, month, len(rows)),
			Before:      before,
			After:       closure,
		})); err != nil {
			return err
		}

		res = CloseResult{
			Closure:           *closure,
			Period:            *period,
			StationsProcessed: len(rows),
			Summaries:         rows,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("cerrar período", fields, err)
	}
	return &res, nil
}

// Reopen reabre un período cerrado y elimina sus resúmenes. Solo admin.
func (s *Service) Reopen(ctx context.Context, actor auth.Actor, zoneID uint, year, month int) (*ReopenResult, error) {
	if err := CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		metrics.ObserveClosing(metrics.OperationReopen, metrics.ResultRejected, 0)
		return nil, ErrAuthorization
	}

	start := time.Now()
	res, err := s.reopen(ctx, actor, zoneID, year, month)
	metrics.ObserveClosing(metrics.OperationReopen, resultLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"zona_id":   zoneID,
		"anio":      year,
		"mes":       month,
		"user_id":   actor.UserID,
		"summaries": res.SummariesDeleted,
	}).Info("período reabierto")
	return res, nil
}

func (s *Service) reopen(ctx context.Context, actor auth.Actor, zoneID uint, year, month int) (*ReopenResult, error) {
	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month, "user_id": actor.UserID}

	release, err := s.locker.Obtain(ctx, lockKey(zoneID, year, month))
	if err != nil {
		return nil, s.fail("obtener candado", fields, err)
	}
	defer release()

	var res ReopenResult
	err = s.repo.Transaction(ctx, func(tx storage.Tx) error {
		zone, err := tx.FindZone(ctx, zoneID)
		if err != nil {
			return err
		}
		if zone == nil {
			return notFound("zona")
		}

		period, err := tx.FindPeriod(ctx, year, month)
		if err != nil {
			return err
		}
		if period == nil {
			return conflict("el período nunca fue cerrado")
		}
		closure, err := tx.LockClosure(ctx, zoneID, period.ID)
		if err != nil {
			return err
		}
		if !closure.IsClosed {
			return conflict("el período no está cerrado")
		}
		before := *closure

		deleted, err := tx.DeleteSummaries(ctx, zoneID, period.ID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		userID := actor.UserID
		closure.IsClosed = false
		closure.ReopenedAt = &now
		closure.ReopenedBy = &userID
		if err := tx.SaveClosure(ctx, closure); err != nil {
			return err
		}

		if err := tx.RecordAudit(ctx, audit.NewEntry(audit.LogOptions{
			ZoneID:      &zoneID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  audit.EntityClosure,
			EntityID:    closure.ID,
			Action:      models.AuditActionReopen,
			Description: fmt.Sprintf("Reapertura de %s %04d-%02d", zone.Name, year, month),
			Before:      before,
			After:       closure,
		})); err != nil {
			return err
		}

		res = ReopenResult{Closure: *closure, Period: *period, SummariesDeleted: deleted}
		return nil
	})
	if err != nil {
		return nil, s.fail("reabrir período", fields, err)
	}
	return &res, nil
}

// Summaries devuelve los resúmenes guardados; vacío si el período está abierto.
func (s *Service) Summaries(ctx context.Context, actor auth.Actor, zoneID uint, year, month int) ([]models.MonthlySummary, error) {
	if err := CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.CanAccessZone(zoneID) {
		return nil, ErrAuthorization
	}

	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month}
	zone, err := s.repo.FindZone(ctx, zoneID)
	if err != nil {
		return nil, s.fail("buscar zona", fields, err)
	}
	if zone == nil {
		return nil, notFound("zona")
	}
	period, err := s.repo.FindPeriod(ctx, year, month)
	if err != nil {
		return nil, s.fail("buscar período", fields, err)
	}
	if period == nil {
		return []models.MonthlySummary{}, nil
	}
	rows, err := s.repo.ListSummaries(ctx, zoneID, period.ID)
	if err != nil {
		return nil, s.fail("listar resúmenes", fields, err)
	}
	if rows == nil {
		rows = []models.MonthlySummary{}
	}
	return rows, nil
}

// SetInitialBalance guarda el resguardo inicial de la zona. Solo admin y con el período abierto.
func (s *Service) SetInitialBalance(ctx context.Context, actor auth.Actor, zoneID uint, year, month int, amount decimal.Decimal) (*models.InitialBalance, error) {
	if err := CheckPeriod(year, month); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAuthorization
	}

	fields := logrus.Fields{"zona_id": zoneID, "anio": year, "mes": month, "user_id": actor.UserID}
	var out models.InitialBalance
	err := s.repo.Transaction(ctx, func(tx storage.Tx) error {
		zone, err := tx.FindZone(ctx, zoneID)
		if err != nil {
			return err
		}
		if zone == nil {
			return notFound("zona")
		}
		period, err := tx.EnsurePeriod(ctx, year, month)
		if err != nil {
			return err
		}
		closure, err := tx.FindClosure(ctx, zoneID, period.ID)
		if err != nil {
			return err
		}
		if closure != nil && closure.IsClosed {
			return conflict("el período está cerrado")
		}

		previous, err := tx.InitialBalance(ctx, zoneID, period.ID)
		if err != nil {
			return err
		}
		out = models.InitialBalance{ZoneID: zoneID, PeriodID: period.ID, Amount: amount.Round(4), UpdatedBy: actor.UserID}
		if err := tx.SaveInitialBalance(ctx, &out); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, audit.NewEntry(audit.LogOptions{
			ZoneID:      &zoneID,
			UserID:      actor.UserID,
			UserName:    actor.Name,
			EntityType:  audit.EntityInitialBalance,
			EntityID:    out.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Saldo inicial %04d-%02d: %s", year, month, out.Amount.StringFixed(2)),
			Before:      map[string]string{"monto": previous.StringFixed(4)},
			After:       map[string]string{"monto": out.Amount.StringFixed(4)},
		}))
	})
	if err != nil {
		return nil, s.fail("guardar saldo inicial", fields, err)
	}
	return &out, nil
}

// EnsureOpen devuelve ErrStateConflict si date cae en un período cerrado para la zona.
func (s *Service) EnsureOpen(ctx context.Context, zoneID uint, date time.Time) error {
	d := models.DateOnly(date)
	fields := logrus.Fields{"zona_id": zoneID, "fecha": d.Format("2006-01-02")}

	period, err := s.repo.FindPeriod(ctx, d.Year(), int(d.Month()))
	if err != nil {
		return s.fail("buscar período", fields, err)
	}
	if period == nil {
		return nil
	}
	closure, err := s.repo.FindClosure(ctx, zoneID, period.ID)
	if err != nil {
		return s.fail("buscar cierre", fields, err)
	}
	if closure != nil && closure.IsClosed {
		return conflict(fmt.Sprintf("el período %04d-%02d está cerrado para la zona", period.Year, period.Month))
	}
	return nil
}
