package usecase

import (
	"context"
	"testing"

	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClinic(t *testing.T) {
	id := uuid.MustParse("6f1c2f0e-8a4b-4c3e-9d2a-0b7e5f1a2c3d")
	f := newFixture(t, func() uuid.UUID { return id })
	ctx, operator := operatorContext()
	f.expectCommit()

	clinic, err := f.clinic.CreateClinic(ctx, &dto.CreateClinicRequest{Name: "St. Mary", Rooms: []string{"1", "2"}})

	require.NoError(t, err)
	assert.Equal(t, id, clinic.ID)
	assert.Equal(t, "St. Mary", clinic.Name)
	require.Len(t, clinic.Rooms, 2)
	assert.Equal(t, "1", clinic.Rooms[0].Name)
	assert.Len(t, f.rooms.rooms[id], 2)

	require.Len(t, f.audits.logs, 1)
	assert.Equal(t, entity.AuditActionClinicCreate, f.audits.logs[0].Action)
	assert.Equal(t, operator.String(), f.audits.logs[0].Actor)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetClinic_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.clinic.GetClinic(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestListClinics(t *testing.T) {
	f := newFixture(t, nil)
	f.seedClinic("1")
	f.seedClinic("1", "2")

	list, err := f.clinic.ListClinics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}

func TestRegisterRoom(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")
	key := service.RedisSnapshotKeyPrefix + clinicID.String()
	require.NoError(t, f.redis.Set(key, `{"clinic_id":"`+clinicID.String()+`"}`))
	f.expectCommit()

	room, err := f.clinic.RegisterRoom(context.Background(), clinicID, &dto.RegisterRoomRequest{Name: "2"})

	require.NoError(t, err)
	assert.Equal(t, "2", room.Name)
	assert.Len(t, f.rooms.rooms[clinicID], 2)
	assert.False(t, f.redis.Exists(key), "cached schedule must be dropped")
	require.Len(t, f.audits.logs, 1)
	assert.Equal(t, "system", f.audits.logs[0].Actor)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegisterRoom_Duplicate(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")
	f.expectRollback()

	_, err := f.clinic.RegisterRoom(context.Background(), clinicID, &dto.RegisterRoomRequest{Name: "1"})

	assert.ErrorIs(t, err, ErrRoomAlreadyRegistered)
	assert.Empty(t, f.audits.logs)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegisterRoom_UnknownClinic(t *testing.T) {
	f := newFixture(t, nil)
	f.expectRollback()

	_, err := f.clinic.RegisterRoom(context.Background(), uuid.New(), &dto.RegisterRoomRequest{Name: "1"})

	assert.ErrorIs(t, err, ErrClinicNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
