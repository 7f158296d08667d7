package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinic-schedule/internal/delivery/dto"
	"clinic-schedule/internal/domain/entity"
	"clinic-schedule/internal/domain/schedule"
	"clinic-schedule/internal/infrastructure/metrics"
	"clinic-schedule/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleOnCallThenVisit(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1", "2")
	ctx, _ := operatorContext()
	f.expectCommit()
	f.expectCommit()

	_, err := f.schedule.ScheduleOnCall(ctx, clinicID, onCallReq(surgeon, "1", at(8, 0), at(12, 0)))
	require.NoError(t, err)

	response, err := f.schedule.ScheduleVisit(ctx, clinicID, visitReq(surgeon, "1", "Frank", at(9, 0), at(10, 0)))
	require.NoError(t, err)

	assert.Equal(t, 3, response.Total)
	var visits int
	for _, e := range response.Entries {
		if e.Kind == dto.EntryKindVisit {
			visits++
			assert.Equal(t, "Frank", *e.Patient)
			assert.True(t, e.From.Equal(at(9, 0)))
		}
	}
	assert.Equal(t, 1, visits)

	stored := f.entries.entries[clinicID]
	require.Len(t, stored, 3)
	for i, record := range stored {
		assert.Equal(t, i, record.Position)
		assert.Equal(t, clinicID, record.ClinicID)
	}

	require.Len(t, f.audits.logs, 2)
	assert.Equal(t, entity.AuditActionScheduleOnCall, f.audits.logs[0].Action)
	assert.Equal(t, entity.AuditActionScheduleVisit, f.audits.logs[1].Action)
	assert.Equal(t, "Frank", f.audits.logs[1].Metadata["patient"])

	assert.True(t, f.redis.Exists(service.RedisSnapshotKeyPrefix+clinicID.String()))
	assert.Equal(t, 1.0, f.counter(OperationOnCall, metrics.ResultOK))
	assert.Equal(t, 1.0, f.counter(OperationVisit, metrics.ResultOK))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetSchedule_DoctorOnCallInTwoRooms(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("A", "B")
	ctx, _ := operatorContext()
	f.expectCommit()
	f.expectCommit()
	f.expectCommit()

	_, err := f.schedule.ScheduleOnCall(ctx, clinicID, onCallReq(surgeon, "B", at(10, 0), at(12, 0)))
	require.NoError(t, err)
	_, err = f.schedule.ScheduleVisit(ctx, clinicID, visitReq(surgeon, "B", "Frank", at(10, 0), at(11, 0)))
	require.NoError(t, err)
	_, err = f.schedule.ScheduleOnCall(ctx, clinicID, onCallReq(surgeon, "A", at(10, 0), at(12, 0)))
	require.NoError(t, err)

	f.redis.Del(service.RedisSnapshotKeyPrefix + clinicID.String())
	response, err := f.schedule.GetSchedule(context.Background(), clinicID)

	require.NoError(t, err)
	assert.Equal(t, 3, response.Total)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleVisit_RejectionLeavesStorageUntouched(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1", "2")
	f.expectCommit()
	f.expectRollback()

	_, err := f.schedule.ScheduleOnCall(context.Background(), clinicID, onCallReq(surgeon, "1", at(10, 0), at(11, 0)))
	require.NoError(t, err)
	before := append([]entity.ScheduleEntry(nil), f.entries.entries[clinicID]...)

	_, err = f.schedule.ScheduleVisit(context.Background(), clinicID, visitReq(surgeon, "1", "Frank", at(10, 30), at(11, 30)))

	assert.ErrorIs(t, err, schedule.ErrNoDoctorOnCall)
	assert.True(t, schedule.IsBusiness(err))
	assert.Equal(t, before, f.entries.entries[clinicID])
	assert.Len(t, f.audits.logs, 1)
	assert.Equal(t, 1.0, f.counter(OperationVisit, metrics.ResultRejected))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleOnCall_RoomTaken(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1", "2")
	f.expectCommit()
	f.expectRollback()

	_, err := f.schedule.ScheduleOnCall(context.Background(), clinicID, onCallReq(surgeon, "1", at(10, 0), at(12, 0)))
	require.NoError(t, err)

	_, err = f.schedule.ScheduleOnCall(context.Background(), clinicID, onCallReq(cardio, "1", at(11, 0), at(13, 0)))

	var be *schedule.BusinessError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, schedule.ErrRoomAlreadyTaken)
	assert.Equal(t, "1", be.Room)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleOnCall_InvalidRangeSkipsStorage(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")

	_, err := f.schedule.ScheduleOnCall(context.Background(), clinicID, onCallReq(surgeon, "1", at(12, 0), at(10, 0)))

	assert.ErrorIs(t, err, schedule.ErrInvalidRange)
	assert.False(t, schedule.IsBusiness(err))
	assert.Zero(t, f.entries.reads)
	assert.Equal(t, 1.0, f.counter(OperationOnCall, metrics.ResultInvalid))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleOnCall_UnknownClinic(t *testing.T) {
	f := newFixture(t, nil)
	f.expectRollback()

	_, err := f.schedule.ScheduleOnCall(context.Background(), uuid.New(), onCallReq(surgeon, "1", at(10, 0), at(12, 0)))

	assert.ErrorIs(t, err, ErrClinicNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleOnCall_MovesInstantsIntoZone(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")
	f.expectCommit()

	req := onCallReq(surgeon, "1", at(8, 0), at(12, 0))
	req.Zone = "Europe/Warsaw"
	_, err := f.schedule.ScheduleOnCall(context.Background(), clinicID, req)

	require.NoError(t, err)
	stored := f.entries.entries[clinicID]
	require.Len(t, stored, 1)
	assert.Equal(t, "Europe/Warsaw", stored[0].ZoneName)
	assert.Equal(t, 3600, stored[0].ZoneOffset)
	assert.Equal(t, "Europe/Warsaw", stored[0].EndZoneName)
	assert.True(t, stored[0].StartsAt.Equal(at(8, 0)))
}

func TestErase(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1", "2")
	f.expectCommit()
	f.expectCommit()
	f.expectRollback()

	_, err := f.schedule.ScheduleOnCall(context.Background(), clinicID, onCallReq(surgeon, "1", at(8, 0), at(12, 0)))
	require.NoError(t, err)

	response, err := f.schedule.Erase(context.Background(), clinicID, &dto.EraseRequest{From: at(9, 0), To: at(10, 0)})
	require.NoError(t, err)
	assert.Equal(t, 2, response.Total)

	_, err = f.schedule.Erase(context.Background(), clinicID, &dto.EraseRequest{From: at(13, 0), To: at(14, 0)})
	assert.ErrorIs(t, err, schedule.ErrNothingToErase)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGetSchedule_ServesFromCacheAfterFirstLoad(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")
	start := at(8, 0)
	f.entries.entries[clinicID] = []entity.ScheduleEntry{{
		ClinicID: clinicID, Position: 0, DoctorID: surgeon, Specialization: "surgeon",
		RoomName: "1", StartsAt: start, EndsAt: start.Add(time.Hour), ZoneName: "UTC",
	}}

	first, err := f.schedule.GetSchedule(context.Background(), clinicID)
	require.NoError(t, err)
	second, err := f.schedule.GetSchedule(context.Background(), clinicID)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Total)
	assert.Equal(t, []string{"1"}, first.Rooms)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, f.entries.reads)
}

func TestGetSchedule_UnknownClinic(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.schedule.GetSchedule(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestGetSchedule_CorruptStorage(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")
	record := func(position, fromHour, toHour int) entity.ScheduleEntry {
		return entity.ScheduleEntry{
			ClinicID: clinicID, Position: position, DoctorID: uuid.New(), Specialization: "surgeon",
			RoomName: "1", StartsAt: at(fromHour, 0), EndsAt: at(toHour, 0), ZoneName: "UTC",
		}
	}
	f.entries.entries[clinicID] = []entity.ScheduleEntry{record(0, 8, 10), record(1, 9, 11)}

	_, err := f.schedule.GetSchedule(context.Background(), clinicID)

	assert.ErrorIs(t, err, ErrCorruptSchedule)
	assert.False(t, errors.Is(err, schedule.ErrRoomAlreadyTaken))
	assert.False(t, schedule.IsBusiness(err))
}

func TestScheduleOnCall_ConcurrentRequestsForOneRoom(t *testing.T) {
	f := newFixture(t, nil)
	clinicID := f.seedClinic("1")
	f.mock.MatchExpectationsInOrder(false)
	const attempts = 8
	for i := 0; i < attempts; i++ {
		f.mock.ExpectBegin()
	}
	f.mock.ExpectCommit()
	for i := 1; i < attempts; i++ {
		f.mock.ExpectRollback()
	}

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.schedule.ScheduleOnCall(context.Background(), clinicID, onCallReq(uuid.New(), "1", at(10, 0), at(12, 0)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, schedule.ErrDateAlreadyTaken):
			taken++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, taken)
	assert.Len(t, f.entries.entries[clinicID], 1)
}
