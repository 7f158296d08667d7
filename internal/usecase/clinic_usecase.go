package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-schedule/internal/converter"
	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/delivery/http/middleware"
	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/domain/repository"
	"clinic-schedule/internal/domain/schedule"
	"clinic-schedule/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrClinicNotFound        = errors.New("clinic not found")
	ErrRoomAlreadyRegistered = errors.New("room already registered")
)

type ClinicUsecase interface {
	CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	GetClinic(ctx context.Context, clinicID uuid.UUID) (*dto.ClinicResponse, error)
	ListClinics(ctx context.Context) (*dto.ClinicListResponse, error)
	RegisterRoom(ctx context.Context, clinicID uuid.UUID, req *dto.RegisterRoomRequest) (*dto.RoomResponse, error)
}

type clinicUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	newID        schedule.IDGenerator
	clinicRepo   repository.ClinicRepository
	roomRepo     repository.RoomRepository
	auditService service.AuditService
	locker       *service.ClinicLocker
	cache        *service.SnapshotCache
}

func NewClinicUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	newID schedule.IDGenerator,
	clinicRepo repository.ClinicRepository,
	roomRepo repository.RoomRepository,
	auditService service.AuditService,
	locker *service.ClinicLocker,
	cache *service.SnapshotCache,
) ClinicUsecase {
	if newID == nil {
		newID = uuid.New
	}
	return &clinicUsecase{
		db:           db,
		log:          log,
		newID:        newID,
		clinicRepo:   clinicRepo,
		roomRepo:     roomRepo,
		auditService: auditService,
		locker:       locker,
		cache:        cache,
	}
}

func (u *clinicUsecase) CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic := &entity.Clinic{
		ID:   u.newID(),
		Name: req.Name,
	}
	if err := u.clinicRepo.Create(tx, clinic); err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, err
	}

	for _, name := range req.Rooms {
		room := entity.Room{ClinicID: clinic.ID, Name: name}
		if err := u.roomRepo.Create(tx, &room); err != nil {
			u.log.Warnf("Failed to create room: %+v", err)
			if isDuplicateKeyError(err, "idx_rooms_clinic_name") {
				return nil, ErrRoomAlreadyRegistered
			}
			return nil, err
		}
		clinic.Rooms = append(clinic.Rooms, room)
	}

	metadata := entity.JSON{"name": clinic.Name, "rooms": req.Rooms}
	if err := u.auditService.Log(ctx, tx, clinic.ID, actorFromContext(ctx), entity.AuditActionClinicCreate, metadata); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Clinic created: id=%s, rooms=%d", clinic.ID, len(clinic.Rooms))
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) GetClinic(ctx context.Context, clinicID uuid.UUID) (*dto.ClinicResponse, error) {
	clinic, err := u.clinicRepo.FindByID(u.db.WithContext(ctx), clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) ListClinics(ctx context.Context) (*dto.ClinicListResponse, error) {
	clinics, err := u.clinicRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all clinics: %+v", err)
		return nil, err
	}

	return &dto.ClinicListResponse{
		Clinics: converter.ClinicsToResponses(clinics),
		Total:   len(clinics),
	}, nil
}

// RegisterRoom adds a bookable room. It holds the clinic lock so a schedule
// change in flight never sees half of the new room set.
func (u *clinicUsecase) RegisterRoom(ctx context.Context, clinicID uuid.UUID, req *dto.RegisterRoomRequest) (*dto.RoomResponse, error) {
	unlock := u.locker.Lock(clinicID)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	clinic, err := u.clinicRepo.FindByID(tx, clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	exists, err := u.roomRepo.ExistsByName(tx, clinicID, req.Name)
	if err != nil {
		u.log.Warnf("Failed to check room: %+v", err)
		return nil, err
	}
	if exists {
		return nil, ErrRoomAlreadyRegistered
	}

	room := &entity.Room{ClinicID: clinicID, Name: req.Name}
	if err := u.roomRepo.Create(tx, room); err != nil {
		u.log.Warnf("Failed to create room: %+v", err)
		if isDuplicateKeyError(err, "idx_rooms_clinic_name") {
			return nil, ErrRoomAlreadyRegistered
		}
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, clinicID, actorFromContext(ctx), entity.AuditActionRoomRegister, entity.JSON{"room": room.Name}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// the cached schedule lists rooms
	if err := u.cache.Invalidate(ctx, clinicID); err != nil {
		u.log.Warnf("Failed to invalidate cached schedule: %+v", err)
	}

	u.log.Infof("Room registered: clinic=%s, room=%s", clinicID, room.Name)
	return converter.RoomToResponse(room), nil
}

// actorFromContext names the operator behind a request for the audit trail
func actorFromContext(ctx context.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		return userID.String()
	}
	return "system"
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on the specified constraint
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
