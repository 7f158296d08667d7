package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange          = errors.New("invalid time range")
	ErrOnCallWithPatient     = errors.New("on call with patient")
	ErrNoPatient             = errors.New("no patient")
	ErrDateAlreadyTaken      = errors.New("date already taken")
	ErrRoomAlreadyTaken      = errors.New("room already taken")
	ErrNoDoctorOnCall        = errors.New("no doctor on call")
	ErrRoomMismatch          = errors.New("room mismatch")
	ErrVisitAlreadyScheduled = errors.New("visit already scheduled")
	ErrAlreadyAssigned       = errors.New("entry already assigned")
	ErrNothingToErase        = errors.New("nothing to erase")
)

const (
	msgNoCorrespondingOnCall = "No corresponding on call for this doctor"
	msgOnCallsNotAligned     = "Doctor's on calls are not fully aligned with the visit"
)

// BusinessError is a schedule rule violation. It unwraps to one of the
// sentinel errors above and carries the room or patient that caused it,
// along with a message meant for the end user.
type BusinessError struct {
	Kind    error
	Room    string
	Patient string
	message string
}

func (e *BusinessError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.Kind.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Kind
}

// IsBusiness reports whether err is a schedule rule violation, as opposed to
// a malformed range or an infrastructure failure.
func IsBusiness(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}

func onCallWithPatient(patient Patient) error {
	return &BusinessError{
		Kind:    ErrOnCallWithPatient,
		Patient: patient.Name,
		message: "On call cannot be scheduled with a patient",
	}
}

func noPatient() error {
	return &BusinessError{Kind: ErrNoPatient, message: "Visit cannot be scheduled without a patient"}
}

func dateAlreadyTaken() error {
	return &BusinessError{Kind: ErrDateAlreadyTaken, message: "Cannot schedule for a given date. All the rooms taken"}
}

func roomAlreadyTaken(room Room) error {
	return &BusinessError{
		Kind:    ErrRoomAlreadyTaken,
		Room:    room.Name,
		message: fmt.Sprintf("Cannot schedule for a room %q", room.Name),
	}
}

func noDoctorOnCall(message string) error {
	return &BusinessError{Kind: ErrNoDoctorOnCall, message: message}
}

func roomMismatch(room Room) error {
	return &BusinessError{
		Kind:    ErrRoomMismatch,
		Room:    room.Name,
		message: "Doctor should be in room " + room.Name,
	}
}

func visitAlreadyScheduled(patient Patient) error {
	return &BusinessError{
		Kind:    ErrVisitAlreadyScheduled,
		Patient: patient.Name,
		message: "There are already interfering visits, e.g. for patient " + patient.Name,
	}
}

func alreadyAssigned(patient Patient) error {
	return &BusinessError{
		Kind:    ErrAlreadyAssigned,
		Patient: patient.Name,
		message: "Entry is already assigned to patient " + patient.Name,
	}
}

func nothingToErase() error {
	return &BusinessError{Kind: ErrNothingToErase, message: "Nothing to erase in the given dates"}
}
