package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/delivery/http/middleware"
	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/infrastructure/metrics"
	"clinic-schedule/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeClinicRepo struct {
	clinics map[uuid.UUID]entity.Clinic
}

func (r *fakeClinicRepo) Create(db *gorm.DB, clinic *entity.Clinic) error {
	r.clinics[clinic.ID] = *clinic
	return nil
}

func (r *fakeClinicRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, nil
	}
	return &clinic, nil
}

func (r *fakeClinicRepo) FindAll(db *gorm.DB) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	for _, clinic := range r.clinics {
		clinics = append(clinics, clinic)
	}
	return clinics, nil
}

type fakeRoomRepo struct {
	rooms  map[uuid.UUID][]entity.Room
	nextID int
}

func (r *fakeRoomRepo) Create(db *gorm.DB, room *entity.Room) error {
	r.nextID++
	room.ID = r.nextID
	r.rooms[room.ClinicID] = append(r.rooms[room.ClinicID], *room)
	return nil
}

func (r *fakeRoomRepo) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.Room, error) {
	return r.rooms[clinicID], nil
}

func (r *fakeRoomRepo) ExistsByName(db *gorm.DB, clinicID uuid.UUID, name string) (bool, error) {
	for _, room := range r.rooms[clinicID] {
		if room.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type fakeScheduleRepo struct {
	entries map[uuid.UUID][]entity.ScheduleEntry
	reads   int
}

func (r *fakeScheduleRepo) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.ScheduleEntry, error) {
	r.reads++
	return append([]entity.ScheduleEntry(nil), r.entries[clinicID]...), nil
}

func (r *fakeScheduleRepo) ReplaceEntries(db *gorm.DB, clinicID uuid.UUID, entries []entity.ScheduleEntry) error {
	r.entries[clinicID] = append([]entity.ScheduleEntry(nil), entries...)
	return nil
}

type fakeAuditRepo struct {
	logs []entity.AuditLog
}

func (r *fakeAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditRepo) FindByClinicID(db *gorm.DB, clinicID uuid.UUID) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	for _, log := range r.logs {
		if log.ClinicID != nil && *log.ClinicID == clinicID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

func (r *fakeAuditRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for _, log := range r.logs {
		if log.ID == id {
			return &log, nil
		}
	}
	return nil, nil
}

type fixture struct {
	mock      sqlmock.Sqlmock
	redis     *miniredis.Miniredis
	metrics   *metrics.Metrics
	clinics   *fakeClinicRepo
	rooms     *fakeRoomRepo
	entries   *fakeScheduleRepo
	audits    *fakeAuditRepo
	clinic    ClinicUsecase
	schedule  ScheduleUsecase
	auditLogs AuditLogUsecase
}

func newFixture(t *testing.T, newID func() uuid.UUID) *fixture {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	locker := service.NewClinicLocker(log, time.Hour, time.Hour)
	t.Cleanup(locker.Stop)

	f := &fixture{
		mock:    mock,
		redis:   mr,
		metrics: metrics.New(),
		clinics: &fakeClinicRepo{clinics: map[uuid.UUID]entity.Clinic{}},
		rooms:   &fakeRoomRepo{rooms: map[uuid.UUID][]entity.Room{}},
		entries: &fakeScheduleRepo{entries: map[uuid.UUID][]entity.ScheduleEntry{}},
		audits:  &fakeAuditRepo{},
	}
	cache := service.NewSnapshotCache(client, locker, log, time.Minute)
	auditService := service.NewAuditService(log, f.audits)
	catalog := service.NewRoomCatalog(db, f.rooms)

	f.clinic = NewClinicUsecase(db, log, newID, f.clinics, f.rooms, auditService, locker, cache)
	f.schedule = NewScheduleUsecase(db, log, f.clinics, f.entries, catalog, auditService, locker, cache, f.metrics)
	f.auditLogs = NewAuditLogUsecase(db, log, f.clinics, f.audits)
	return f
}

// seedClinic registers a clinic with rooms directly in the fakes.
func (f *fixture) seedClinic(rooms ...string) uuid.UUID {
	id := uuid.New()
	f.clinics.clinics[id] = entity.Clinic{ID: id, Name: "Clinic"}
	for _, name := range rooms {
		f.rooms.Create(nil, &entity.Room{ClinicID: id, Name: name})
	}
	return id
}

func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func (f *fixture) counter(operation, result string) float64 {
	families, _ := f.metrics.Registry().Gather()
	for _, family := range families {
		if family.GetName() != "schedule_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, label := range metric.GetLabel() {
				labels[label.GetName()] = label.GetValue()
			}
			if labels["operation"] == operation && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

var (
	day     = time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)
	surgeon = uuid.MustParse("0d4b7c1e-2f3a-4b5c-8d9e-1a2b3c4d5e6f")
	cardio  = uuid.MustParse("9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d")
)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func onCallReq(doctor uuid.UUID, room string, from, to time.Time) *dto.OnCallRequest {
	return &dto.OnCallRequest{DoctorID: doctor, Specialization: "surgeon", Room: room, From: from, To: to}
}

func visitReq(doctor uuid.UUID, room, patient string, from, to time.Time) *dto.VisitRequest {
	return &dto.VisitRequest{DoctorID: doctor, Specialization: "surgeon", Room: room, Patient: patient, From: from, To: to}
}

func operatorContext() (context.Context, uuid.UUID) {
	operator := uuid.New()
	return middleware.WithUserID(context.Background(), operator), operator
}
