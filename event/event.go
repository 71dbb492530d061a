// Package event implements the per-instance event queue and the
// serialized event records handed to a polling caller.
//
// Every event is serialized into the byte layout of its protocol structure
// without the leading 16-byte header (type tag plus next pointer). A poll
// writes the tag into Buffer.Type and copies the body into Buffer.Varying,
// which sits at the same offset the body occupies in the full structure.
package event

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/davidrios/openxr-device-simulator/xr"
)

// HeaderSize is the size of the type tag and next pointer that precede
// every event body.
const HeaderSize = 16

// Event is a notification queued for an instance.
type Event interface {
	Type() xr.StructureType
	size() int
	put(b []byte)
}

var order = binary.NativeEndian

// SessionStateChanged reports a session lifecycle transition.
type SessionStateChanged struct {
	Session xr.Session
	State   xr.SessionState
	Time    xr.Time
}

func (SessionStateChanged) Type() xr.StructureType { return xr.TypeEventDataSessionStateChanged }
func (SessionStateChanged) size() int              { return 24 }
func (e SessionStateChanged) put(b []byte) {
	order.PutUint64(b[0:], uint64(e.Session))
	order.PutUint32(b[8:], uint32(e.State))
	order.PutUint64(b[16:], uint64(e.Time))
}

// InstanceLossPending warns that the instance is about to be lost.
type InstanceLossPending struct {
	LossTime xr.Time
}

func (InstanceLossPending) Type() xr.StructureType { return xr.TypeEventDataInstanceLossPending }
func (InstanceLossPending) size() int              { return 8 }
func (e InstanceLossPending) put(b []byte) {
	order.PutUint64(b[0:], uint64(e.LossTime))
}

// EventsLost reports events dropped before delivery.
type EventsLost struct {
	LostEventCount uint32
}

func (EventsLost) Type() xr.StructureType { return xr.TypeEventDataEventsLost }
func (EventsLost) size() int              { return 8 }
func (e EventsLost) put(b []byte) {
	order.PutUint32(b[0:], e.LostEventCount)
}

// InteractionProfileChanged reports new bindings for a session.
type InteractionProfileChanged struct {
	Session xr.Session
}

func (InteractionProfileChanged) Type() xr.StructureType {
	return xr.TypeEventDataInteractionProfileChanged
}
func (InteractionProfileChanged) size() int { return 8 }
func (e InteractionProfileChanged) put(b []byte) {
	order.PutUint64(b[0:], uint64(e.Session))
}

// ReferenceSpaceChangePending announces a move of a reference space origin.
type ReferenceSpaceChangePending struct {
	Session             xr.Session
	ReferenceSpaceType  xr.ReferenceSpaceType
	ChangeTime          xr.Time
	PoseValid           bool
	PoseInPreviousSpace xr.Posef
}

func (ReferenceSpaceChangePending) Type() xr.StructureType {
	return xr.TypeEventDataReferenceSpaceChangePending
}
func (ReferenceSpaceChangePending) size() int { return 56 }
func (e ReferenceSpaceChangePending) put(b []byte) {
	order.PutUint64(b[0:], uint64(e.Session))
	order.PutUint32(b[8:], uint32(e.ReferenceSpaceType))
	order.PutUint64(b[16:], uint64(e.ChangeTime))
	if e.PoseValid {
		order.PutUint32(b[24:], 1)
	}
	putPose(b[28:], e.PoseInPreviousSpace)
}

func putPose(b []byte, p xr.Posef) {
	f := [7]float32{
		p.Orientation.X, p.Orientation.Y, p.Orientation.Z, p.Orientation.W,
		p.Position.X, p.Position.Y, p.Position.Z,
	}
	for i, v := range f {
		order.PutUint32(b[i*4:], math.Float32bits(v))
	}
}

func pose(b []byte) xr.Posef {
	var f [7]float32
	for i := range f {
		f[i] = math.Float32frombits(order.Uint32(b[i*4:]))
	}
	return xr.Posef{
		Orientation: xr.Quaternionf{X: f[0], Y: f[1], Z: f[2], W: f[3]},
		Position:    xr.Vector3f{X: f[4], Y: f[5], Z: f[6]},
	}
}

// Record is a serialized event: a structure tag and its body bytes.
type Record struct {
	Type xr.StructureType
	Body []byte
}

// Encode serializes e.
func Encode(e Event) Record {
	b := make([]byte, e.size())
	e.put(b)
	return Record{Type: e.Type(), Body: b}
}

// Decode parses the event currently held in buf.
func Decode(buf *Buffer) (Event, error) {
	b := buf.Varying[:]
	switch buf.Type {
	case xr.TypeEventDataSessionStateChanged:
		return SessionStateChanged{
			Session: xr.Session(order.Uint64(b[0:])),
			State:   xr.SessionState(int32(order.Uint32(b[8:]))),
			Time:    xr.Time(int64(order.Uint64(b[16:]))),
		}, nil
	case xr.TypeEventDataInstanceLossPending:
		return InstanceLossPending{LossTime: xr.Time(int64(order.Uint64(b[0:])))}, nil
	case xr.TypeEventDataEventsLost:
		return EventsLost{LostEventCount: order.Uint32(b[0:])}, nil
	case xr.TypeEventDataInteractionProfileChanged:
		return InteractionProfileChanged{Session: xr.Session(order.Uint64(b[0:]))}, nil
	case xr.TypeEventDataReferenceSpaceChangePending:
		return ReferenceSpaceChangePending{
			Session:             xr.Session(order.Uint64(b[0:])),
			ReferenceSpaceType:  xr.ReferenceSpaceType(int32(order.Uint32(b[8:]))),
			ChangeTime:          xr.Time(int64(order.Uint64(b[16:]))),
			PoseValid:           order.Uint32(b[24:]) != 0,
			PoseInPreviousSpace: pose(b[28:]),
		}, nil
	}
	return nil, fmt.Errorf("event: cannot decode %s", buf.Type)
}
