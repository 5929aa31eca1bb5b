package feed

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures forwarded samples.
type recordingSink struct {
	positions [][2]float64
	headings  []float64
}

func (s *recordingSink) OnPosition(lat, lon float64) {
	s.positions = append(s.positions, [2]float64{lat, lon})
}

func (s *recordingSink) OnHeading(degrees float64) {
	s.headings = append(s.headings, degrees)
}

// fakeMessage implements mqtt.Message for handler tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func newTestFeed(sink Sink) *Feed {
	return New(Config{BrokerURL: "tcp://localhost:1883", ClientID: "test"}, sink, zerolog.Nop())
}

func TestHandlePosition(t *testing.T) {
	sink := &recordingSink{}
	f := newTestFeed(sink)

	f.handlePosition(nil, fakeMessage{
		topic:   DefaultPositionTopic,
		payload: []byte(`{"latitude":21.0,"longitude":39.0}`),
	})

	require.Len(t, sink.positions, 1)
	assert.Equal(t, [2]float64{21.0, 39.0}, sink.positions[0])
}

func TestHandleHeading(t *testing.T) {
	sink := &recordingSink{}
	f := newTestFeed(sink)

	f.handleHeading(nil, fakeMessage{
		topic:   DefaultHeadingTopic,
		payload: []byte(`{"degrees":123.5}`),
	})

	require.Len(t, sink.headings, 1)
	assert.Equal(t, 123.5, sink.headings[0])
}

func TestHandle_MalformedPayloadDropped(t *testing.T) {
	sink := &recordingSink{}
	f := newTestFeed(sink)

	f.handlePosition(nil, fakeMessage{topic: DefaultPositionTopic, payload: []byte("not json")})
	f.handleHeading(nil, fakeMessage{topic: DefaultHeadingTopic, payload: []byte("{")})

	assert.Empty(t, sink.positions)
	assert.Empty(t, sink.headings)
}

func TestNew_TopicDefaults(t *testing.T) {
	f := New(Config{BrokerURL: "tcp://localhost:1883"}, &recordingSink{}, zerolog.Nop())
	assert.Equal(t, DefaultPositionTopic, f.positionTopic)
	assert.Equal(t, DefaultHeadingTopic, f.headingTopic)

	f = New(Config{
		BrokerURL:     "tcp://localhost:1883",
		PositionTopic: "gps/fix",
		HeadingTopic:  "compass/heading",
	}, &recordingSink{}, zerolog.Nop())
	assert.Equal(t, "gps/fix", f.positionTopic)
	assert.Equal(t, "compass/heading", f.headingTopic)
}
