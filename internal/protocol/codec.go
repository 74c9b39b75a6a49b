package protocol

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Decoding errors.
var (
	ErrMalformed     = errors.New("protocol: malformed message")
	ErrEmptyRequest  = errors.New("protocol: request carries neither join nor tick")
	ErrMultiplexed   = errors.New("protocol: request carries both join and tick")
	ErrEmptyResponse = errors.New("protocol: response carries no result")
)

// Field numbers. Zero-valued scalars are omitted, as in proto3.
const (
	fieldVecX protowire.Number = 1
	fieldVecY protowire.Number = 2

	fieldBallPosition protowire.Number = 1
	fieldBallVelocity protowire.Number = 2

	fieldJoinWindow  protowire.Number = 1
	fieldJoinPlayer1 protowire.Number = 2
	fieldJoinPlayer2 protowire.Number = 3
	fieldJoinBall    protowire.Number = 4

	fieldJoinRespPlayer1  protowire.Number = 1
	fieldJoinRespPlayer2  protowire.Number = 2
	fieldJoinRespBall     protowire.Number = 3
	fieldJoinRespAssigned protowire.Number = 4
	fieldJoinRespTotal    protowire.Number = 5

	fieldTickPlayer protowire.Number = 1
	fieldTickButton protowire.Number = 2

	fieldTickRespPlayer1 protowire.Number = 1
	fieldTickRespPlayer2 protowire.Number = 2
	fieldTickRespBall    protowire.Number = 3
	fieldTickRespTotal   protowire.Number = 4
	fieldTickRespWinner  protowire.Number = 5

	fieldEnvID    protowire.Number = 1
	fieldEnvJoin  protowire.Number = 2
	fieldEnvTick  protowire.Number = 3
	fieldEnvError protowire.Number = 4
)

// --- encoding helpers ---

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendFloatField(b []byte, num protowire.Number, v float32) []byte {
	bits := math.Float32bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, bits)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// --- decoding helpers ---

// fieldReader walks the fields of one encoded message.
type fieldReader struct {
	b []byte
}

func (r *fieldReader) more() bool {
	return len(r.b) > 0
}

func (r *fieldReader) next() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(r.b)
	if n < 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	r.b = r.b[n:]
	return num, typ, nil
}

func (r *fieldReader) varint(typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("%w: expected varint, got wire type %d", ErrMalformed, typ)
	}
	v, n := protowire.ConsumeVarint(r.b)
	if n < 0 {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	r.b = r.b[n:]
	return v, nil
}

func (r *fieldReader) float(typ protowire.Type) (float32, error) {
	if typ != protowire.Fixed32Type {
		return 0, fmt.Errorf("%w: expected fixed32, got wire type %d", ErrMalformed, typ)
	}
	v, n := protowire.ConsumeFixed32(r.b)
	if n < 0 {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	r.b = r.b[n:]
	return math.Float32frombits(v), nil
}

func (r *fieldReader) bytes(typ protowire.Type) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: expected length-delimited, got wire type %d", ErrMalformed, typ)
	}
	v, n := protowire.ConsumeBytes(r.b)
	if n < 0 {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	r.b = r.b[n:]
	return v, nil
}

func (r *fieldReader) skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, r.b)
	if n < 0 {
		return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	r.b = r.b[n:]
	return nil
}

func (r *fieldReader) vector(typ protowire.Type) (Vector2F, error) {
	raw, err := r.bytes(typ)
	if err != nil {
		return Vector2F{}, err
	}
	var v Vector2F
	err = v.Unmarshal(raw)
	return v, err
}

func (r *fieldReader) ball(typ protowire.Type) (BallState, error) {
	raw, err := r.bytes(typ)
	if err != nil {
		return BallState{}, err
	}
	var s BallState
	err = s.Unmarshal(raw)
	return s, err
}

// --- Vector2F ---

// Marshal encodes v.
func (v Vector2F) Marshal() []byte {
	var b []byte
	b = appendFloatField(b, fieldVecX, v.X)
	b = appendFloatField(b, fieldVecY, v.Y)
	return b
}

// Unmarshal decodes b into v.
func (v *Vector2F) Unmarshal(b []byte) error {
	*v = Vector2F{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		switch num {
		case fieldVecX:
			v.X, err = r.float(typ)
		case fieldVecY:
			v.Y, err = r.float(typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- BallState ---

// Marshal encodes s.
func (s BallState) Marshal() []byte {
	var b []byte
	b = appendMessageField(b, fieldBallPosition, s.Position.Marshal())
	b = appendMessageField(b, fieldBallVelocity, s.Velocity.Marshal())
	return b
}

// Unmarshal decodes b into s.
func (s *BallState) Unmarshal(b []byte) error {
	*s = BallState{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		switch num {
		case fieldBallPosition:
			s.Position, err = r.vector(typ)
		case fieldBallVelocity:
			s.Velocity, err = r.vector(typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- JoinRequest ---

// Marshal encodes m. Nil fields are left out.
func (m *JoinRequest) Marshal() []byte {
	var b []byte
	for _, f := range []struct {
		num protowire.Number
		v   *Vector2F
	}{
		{fieldJoinWindow, m.WindowSize},
		{fieldJoinPlayer1, m.Player1SpriteSize},
		{fieldJoinPlayer2, m.Player2SpriteSize},
		{fieldJoinBall, m.BallSpriteSize},
	} {
		if f.v != nil {
			b = appendMessageField(b, f.num, f.v.Marshal())
		}
	}
	return b
}

// Unmarshal decodes b into m. Fields missing from b stay nil.
func (m *JoinRequest) Unmarshal(b []byte) error {
	*m = JoinRequest{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		var dst **Vector2F
		switch num {
		case fieldJoinWindow:
			dst = &m.WindowSize
		case fieldJoinPlayer1:
			dst = &m.Player1SpriteSize
		case fieldJoinPlayer2:
			dst = &m.Player2SpriteSize
		case fieldJoinBall:
			dst = &m.BallSpriteSize
		default:
			if err := r.skip(num, typ); err != nil {
				return err
			}
			continue
		}
		v, err := r.vector(typ)
		if err != nil {
			return err
		}
		*dst = &v
	}
	return nil
}

// --- JoinResponse ---

// Marshal encodes m.
func (m *JoinResponse) Marshal() []byte {
	var b []byte
	b = appendMessageField(b, fieldJoinRespPlayer1, m.Player1Position.Marshal())
	b = appendMessageField(b, fieldJoinRespPlayer2, m.Player2Position.Marshal())
	b = appendMessageField(b, fieldJoinRespBall, m.Ball.Marshal())
	b = appendVarintField(b, fieldJoinRespAssigned, uint64(m.AssignedPlayerNumber))
	b = appendVarintField(b, fieldJoinRespTotal, uint64(m.TotalPlayers))
	return b
}

// Unmarshal decodes b into m.
func (m *JoinResponse) Unmarshal(b []byte) error {
	*m = JoinResponse{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		var v uint64
		switch num {
		case fieldJoinRespPlayer1:
			m.Player1Position, err = r.vector(typ)
		case fieldJoinRespPlayer2:
			m.Player2Position, err = r.vector(typ)
		case fieldJoinRespBall:
			m.Ball, err = r.ball(typ)
		case fieldJoinRespAssigned:
			v, err = r.varint(typ)
			m.AssignedPlayerNumber = uint32(v)
		case fieldJoinRespTotal:
			v, err = r.varint(typ)
			m.TotalPlayers = uint32(v)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- TickRequest ---

// Marshal encodes m.
func (m *TickRequest) Marshal() []byte {
	var b []byte
	b = appendVarintField(b, fieldTickPlayer, uint64(m.PlayerNumber))
	b = appendVarintField(b, fieldTickButton, uint64(m.Button))
	return b
}

// Unmarshal decodes b into m.
func (m *TickRequest) Unmarshal(b []byte) error {
	*m = TickRequest{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		var v uint64
		switch num {
		case fieldTickPlayer:
			v, err = r.varint(typ)
			m.PlayerNumber = uint32(v)
		case fieldTickButton:
			v, err = r.varint(typ)
			m.Button = uint32(v)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- TickResponse ---

// Marshal encodes m.
func (m *TickResponse) Marshal() []byte {
	var b []byte
	b = appendMessageField(b, fieldTickRespPlayer1, m.Player1Position.Marshal())
	b = appendMessageField(b, fieldTickRespPlayer2, m.Player2Position.Marshal())
	b = appendMessageField(b, fieldTickRespBall, m.Ball.Marshal())
	b = appendVarintField(b, fieldTickRespTotal, uint64(m.TotalPlayers))
	b = appendVarintField(b, fieldTickRespWinner, uint64(m.Winner))
	return b
}

// Unmarshal decodes b into m.
func (m *TickResponse) Unmarshal(b []byte) error {
	*m = TickResponse{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		var v uint64
		switch num {
		case fieldTickRespPlayer1:
			m.Player1Position, err = r.vector(typ)
		case fieldTickRespPlayer2:
			m.Player2Position, err = r.vector(typ)
		case fieldTickRespBall:
			m.Ball, err = r.ball(typ)
		case fieldTickRespTotal:
			v, err = r.varint(typ)
			m.TotalPlayers = uint32(v)
		case fieldTickRespWinner:
			v, err = r.varint(typ)
			m.Winner = uint32(v)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- envelopes ---

// Marshal encodes the request envelope.
func (m *Request) Marshal() []byte {
	var b []byte
	b = appendVarintField(b, fieldEnvID, m.ID)
	if m.Join != nil {
		b = appendMessageField(b, fieldEnvJoin, m.Join.Marshal())
	}
	if m.Tick != nil {
		b = appendMessageField(b, fieldEnvTick, m.Tick.Marshal())
	}
	return b
}

// Unmarshal decodes b into m and checks that exactly one call is present.
func (m *Request) Unmarshal(b []byte) error {
	*m = Request{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		var raw []byte
		switch num {
		case fieldEnvID:
			m.ID, err = r.varint(typ)
		case fieldEnvJoin:
			if raw, err = r.bytes(typ); err == nil {
				m.Join = &JoinRequest{}
				err = m.Join.Unmarshal(raw)
			}
		case fieldEnvTick:
			if raw, err = r.bytes(typ); err == nil {
				m.Tick = &TickRequest{}
				err = m.Tick.Unmarshal(raw)
			}
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}

	switch {
	case m.Join == nil && m.Tick == nil:
		return ErrEmptyRequest
	case m.Join != nil && m.Tick != nil:
		return ErrMultiplexed
	}
	return nil
}

// Marshal encodes the response envelope.
func (m *Response) Marshal() []byte {
	var b []byte
	b = appendVarintField(b, fieldEnvID, m.ID)
	if m.Join != nil {
		b = appendMessageField(b, fieldEnvJoin, m.Join.Marshal())
	}
	if m.Tick != nil {
		b = appendMessageField(b, fieldEnvTick, m.Tick.Marshal())
	}
	b = appendStringField(b, fieldEnvError, m.Error)
	return b
}

// Unmarshal decodes b into m. A response must carry a result or an error.
func (m *Response) Unmarshal(b []byte) error {
	*m = Response{}
	r := fieldReader{b: b}
	for r.more() {
		num, typ, err := r.next()
		if err != nil {
			return err
		}
		var raw []byte
		switch num {
		case fieldEnvID:
			m.ID, err = r.varint(typ)
		case fieldEnvJoin:
			if raw, err = r.bytes(typ); err == nil {
				m.Join = &JoinResponse{}
				err = m.Join.Unmarshal(raw)
			}
		case fieldEnvTick:
			if raw, err = r.bytes(typ); err == nil {
				m.Tick = &TickResponse{}
				err = m.Tick.Unmarshal(raw)
			}
		case fieldEnvError:
			if raw, err = r.bytes(typ); err == nil {
				m.Error = string(raw)
			}
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return err
		}
	}

	if m.Join == nil && m.Tick == nil && m.Error == "" {
		return ErrEmptyResponse
	}
	return nil
}
