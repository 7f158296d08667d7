package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-schedule/internal/converter"
	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/domain/repository"
	"clinic-schedule/internal/domain/schedule"
	"clinic-schedule/internal/infrastructure/metrics"
	"clinic-schedule/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidZone = errors.New("invalid time zone")
	// ErrCorruptSchedule means the stored entries break a schedule invariant.
	ErrCorruptSchedule = errors.New("stored schedule is inconsistent")
)

// Operation names used for metrics and logs
const (
	OperationOnCall = "on_call"
	OperationVisit  = "visit"
	OperationErase  = "erase"
)

type ScheduleUsecase interface {
	GetSchedule(ctx context.Context, clinicID uuid.UUID) (*dto.ScheduleResponse, error)
	ScheduleOnCall(ctx context.Context, clinicID uuid.UUID, req *dto.OnCallRequest) (*dto.ScheduleResponse, error)
	ScheduleVisit(ctx context.Context, clinicID uuid.UUID, req *dto.VisitRequest) (*dto.ScheduleResponse, error)
	Erase(ctx context.Context, clinicID uuid.UUID, req *dto.EraseRequest) (*dto.ScheduleResponse, error)
}

type scheduleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	clinicRepo   repository.ClinicRepository
	scheduleRepo repository.ScheduleRepository
	catalog      *service.RoomCatalog
	auditService service.AuditService
	locker       *service.ClinicLocker
	cache        *service.SnapshotCache
	metrics      *metrics.Metrics
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	scheduleRepo repository.ScheduleRepository,
	catalog *service.RoomCatalog,
	auditService service.AuditService,
	locker *service.ClinicLocker,
	cache *service.SnapshotCache,
	metrics *metrics.Metrics,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:           db,
		log:          log,
		clinicRepo:   clinicRepo,
		scheduleRepo: scheduleRepo,
		catalog:      catalog,
		auditService: auditService,
		locker:       locker,
		cache:        cache,
		metrics:      metrics,
	}
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, clinicID uuid.UUID) (*dto.ScheduleResponse, error) {
	return u.cache.Load(ctx, clinicID, func(ctx context.Context) (*dto.ScheduleResponse, error) {
		db := u.db.WithContext(ctx)
		if err := u.ensureClinic(db, clinicID); err != nil {
			return nil, err
		}

		s, err := u.load(ctx, db, clinicID)
		if err != nil {
			return nil, err
		}
		return converter.ScheduleToResponse(s), nil
	})
}

func (u *scheduleUsecase) ScheduleOnCall(ctx context.Context, clinicID uuid.UUID, req *dto.OnCallRequest) (*dto.ScheduleResponse, error) {
	start := time.Now()

	from, to, err := inZone(req.From, req.To, req.Zone)
	if err != nil {
		u.observe(OperationOnCall, err, start)
		return nil, err
	}
	doctor := schedule.Doctor{ID: req.DoctorID, Specialization: schedule.Specialization(req.Specialization)}
	entry, err := schedule.NewOnCall(doctor, schedule.Room{Name: req.Room}, from, to)
	if err != nil {
		u.observe(OperationOnCall, err, start)
		return nil, err
	}

	return u.mutate(ctx, clinicID, OperationOnCall, start, entity.AuditActionScheduleOnCall, entryMetadata(entry), func(s *schedule.Schedule) error {
		return s.ScheduleOnCall(entry)
	})
}

func (u *scheduleUsecase) ScheduleVisit(ctx context.Context, clinicID uuid.UUID, req *dto.VisitRequest) (*dto.ScheduleResponse, error) {
	start := time.Now()

	from, to, err := inZone(req.From, req.To, req.Zone)
	if err != nil {
		u.observe(OperationVisit, err, start)
		return nil, err
	}
	doctor := schedule.Doctor{ID: req.DoctorID, Specialization: schedule.Specialization(req.Specialization)}
	entry, err := schedule.NewVisit(doctor, schedule.Room{Name: req.Room}, from, to, schedule.Patient{Name: req.Patient})
	if err != nil {
		u.observe(OperationVisit, err, start)
		return nil, err
	}

	return u.mutate(ctx, clinicID, OperationVisit, start, entity.AuditActionScheduleVisit, entryMetadata(entry), func(s *schedule.Schedule) error {
		return s.ScheduleVisit(entry)
	})
}

func (u *scheduleUsecase) Erase(ctx context.Context, clinicID uuid.UUID, req *dto.EraseRequest) (*dto.ScheduleResponse, error) {
	start := time.Now()

	from, to, err := inZone(req.From, req.To, req.Zone)
	if err != nil {
		u.observe(OperationErase, err, start)
		return nil, err
	}

	metadata := entity.JSON{"from": from.Format(time.RFC3339), "to": to.Format(time.RFC3339)}
	return u.mutate(ctx, clinicID, OperationErase, start, entity.AuditActionScheduleErase, metadata, func(s *schedule.Schedule) error {
		return s.Erase(from, to)
	})
}

// mutate runs one schedule change: it loads the clinic's schedule under the
// clinic lock, applies the change and saves the whole entry set in the same
// transaction. A rejected change writes nothing.
func (u *scheduleUsecase) mutate(
	ctx context.Context,
	clinicID uuid.UUID,
	operation string,
	start time.Time,
	action string,
	metadata entity.JSON,
	apply func(s *schedule.Schedule) error,
) (response *dto.ScheduleResponse, err error) {
	defer func() { u.observe(operation, err, start) }()

	unlock := u.locker.Lock(clinicID)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensureClinic(tx, clinicID); err != nil {
		return nil, err
	}

	s, err := u.load(ctx, tx, clinicID)
	if err != nil {
		return nil, err
	}

	if err := apply(s); err != nil {
		if schedule.IsBusiness(err) {
			u.log.Infof("Schedule %s rejected: clinic=%s, reason=%v", operation, clinicID, err)
		}
		return nil, err
	}

	records := converter.SnapshotToEntities(s.Snapshot())
	if err := u.scheduleRepo.ReplaceEntries(tx, clinicID, records); err != nil {
		u.log.Warnf("Failed to save schedule: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, clinicID, actorFromContext(ctx), action, metadata); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response = converter.ScheduleToResponse(s)
	if err := u.cache.Set(ctx, response); err != nil {
		u.log.Warnf("Failed to cache schedule: %+v", err)
		// a stale copy is worse than none
		if err := u.cache.Invalidate(ctx, clinicID); err != nil {
			u.log.Warnf("Failed to invalidate cached schedule: %+v", err)
		}
	}

	u.log.Infof("Schedule %s applied: clinic=%s, entries=%d", operation, clinicID, response.Total)
	return response, nil
}

// load rebuilds the schedule from its stored entries, checking its invariants.
func (u *scheduleUsecase) load(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) (*schedule.Schedule, error) {
	factory := schedule.NewFactory(u.catalog.WithTx(db), nil)

	records, err := u.scheduleRepo.FindByClinicID(db, clinicID)
	if err != nil {
		u.log.Warnf("Failed to find schedule entries: %+v", err)
		return nil, err
	}
	if len(records) == 0 {
		return factory.Create(ctx, clinicID)
	}

	snapshot, err := converter.EntitiesToSnapshot(clinicID, records)
	if err != nil {
		u.log.Warnf("Failed to read schedule entries: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrCorruptSchedule, err)
	}
	s, err := factory.Restore(ctx, snapshot)
	if err != nil {
		u.log.Warnf("Failed to restore schedule: %+v", err)
		// a broken stored state must not look like a rejection of the request
		return nil, fmt.Errorf("%w: clinic %s: %v", ErrCorruptSchedule, clinicID, err)
	}
	return s, nil
}

func (u *scheduleUsecase) ensureClinic(db *gorm.DB, clinicID uuid.UUID) error {
	clinic, err := u.clinicRepo.FindByID(db, clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return err
	}
	if clinic == nil {
		return ErrClinicNotFound
	}
	return nil
}

func (u *scheduleUsecase) observe(operation string, err error, start time.Time) {
	u.metrics.ObserveOperation(operation, operationResult(err), time.Since(start).Seconds())
}

func operationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case schedule.IsBusiness(err):
		return metrics.ResultRejected
	case errors.Is(err, schedule.ErrInvalidRange), errors.Is(err, ErrInvalidZone), errors.Is(err, ErrClinicNotFound):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

// inZone moves both instants into the named zone. An empty zone keeps the
// offsets the client sent.
func inZone(from, to time.Time, zone string) (time.Time, time.Time, error) {
	if zone == "" {
		return from, to, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidZone, zone)
	}
	return from.In(loc), to.In(loc), nil
}

func entryMetadata(e schedule.Entry) entity.JSON {
	metadata := entity.JSON{
		"doctor_id":      e.Doctor().ID.String(),
		"specialization": string(e.Doctor().Specialization),
		"room":           e.Room().Name,
		"from":           e.From().Format(time.RFC3339),
		"to":             e.To().Format(time.RFC3339),
	}
	if patient, ok := e.Patient(); ok {
		metadata["patient"] = patient.Name
	}
	return metadata
}
