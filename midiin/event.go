package midiin

import (
	"strconv"

	"github.com/jmacd/touchctl/controller"
)

const (
	MIDIStatusNoteOff       = 0x80
	MIDIStatusNoteOn        = 0x90
	MIDIStatusControlChange = 0xb0
	MIDIStatusProgramChange = 0xc0
	MIDIStatusPitchBend     = 0xe0
	MIDIStatusCodeMask      = 0xf0
	MIDIChannelMask         = 0x0f

	maxPitchBend = 0x3fff
)

// Event is one channel voice message as delivered by the driver.
type Event struct {
	Timestamp int32
	Status    byte
	Data1     byte
	Data2     byte
}

func newEvent(msg []byte, milliseconds int32) (Event, bool) {
	switch len(msg) {
	case 2:
		return Event{Timestamp: milliseconds, Status: msg[0], Data1: msg[1]}, true
	case 3:
		return Event{Timestamp: milliseconds, Status: msg[0], Data1: msg[1], Data2: msg[2]}, true
	}
	return Event{}, false
}

// Message converts evt into an addressed control message. Channels are
// numbered from 1 in addresses:
//
//	control change  <prefix>/<ch>/cc/<controller>   float32 in [0, 1]
//	note on / off   <prefix>/<ch>/note/<key>        float32 velocity, 0 on release
//	pitch bend      <prefix>/<ch>/pitch             float32 in [0, 1]
//	program change  <prefix>/<ch>/program           int32 program number
//
// Other status bytes are not converted.
func (evt Event) Message(prefix string) (controller.Message, bool) {
	ch := prefix + "/" + strconv.Itoa(int(evt.Status&MIDIChannelMask)+1)

	switch evt.Status & MIDIStatusCodeMask {
	case MIDIStatusControlChange:
		return floatMessage(ch+"/cc/"+strconv.Itoa(int(evt.Data1)), controller.Value(evt.Data2).Float()), true

	case MIDIStatusNoteOn:
		// Note on with zero velocity is a release.
		return floatMessage(ch+"/note/"+strconv.Itoa(int(evt.Data1)), controller.Value(evt.Data2).Float()), true

	case MIDIStatusNoteOff:
		return floatMessage(ch+"/note/"+strconv.Itoa(int(evt.Data1)), 0), true

	case MIDIStatusPitchBend:
		bend := int(evt.Data2&0x7f)<<7 | int(evt.Data1&0x7f)
		return floatMessage(ch+"/pitch", float64(bend)/maxPitchBend), true

	case MIDIStatusProgramChange:
		return controller.Message{
			Address:   ch + "/program",
			Arguments: []any{int32(evt.Data1)},
		}, true
	}
	return controller.Message{}, false
}

func floatMessage(addr string, v float64) controller.Message {
	return controller.Message{Address: addr, Arguments: []any{float32(v)}}
}
