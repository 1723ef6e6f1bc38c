package kafka

import (
	"encoding/json"

	"github.com/linkedin/goavro/v2"
	"github.com/pkg/errors"
)

// Message is the payload sent for one series point.
type Message struct {
	Series string  `json:"series"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
}

// Encoder turns a Message into a Kafka message value and back. The sink only
// encodes. Decode is for consumers of the topic.
type Encoder interface {
	Encode(m Message) ([]byte, error)
	Decode(b []byte) (Message, error)
}

// NewEncoder returns the Encoder for name: "json" or "avro".
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "json", "":
		return JSONEncoder{}, nil
	case "avro":
		return NewAvroEncoder()
	default:
		return nil, errors.Errorf("unsupported kafka message encoding: '%v'", name)
	}
}

type JSONEncoder struct{}

func (JSONEncoder) Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode reads a value written by Encode, for consumers of the topic.
func (JSONEncoder) Decode(b []byte) (m Message, err error) {
	err = json.Unmarshal(b, &m)
	return m, errors.Wrap(err, "unmarshaling json")
}

// SeriesPointSchema is the Avro schema of a Message.
const SeriesPointSchema = `{
  "type": "record",
  "name": "SeriesPoint",
  "namespace": "rapture.tutorial",
  "fields": [
    {"name": "series", "type": "string"},
    {"name": "date", "type": "string"},
    {"name": "value", "type": "double"}
  ]
}`

// AvroEncoder writes Messages as schemaless Avro binary.
type AvroEncoder struct {
	codec *goavro.Codec
}

func NewAvroEncoder() (*AvroEncoder, error) {
	codec, err := goavro.NewCodec(SeriesPointSchema)
	if err != nil {
		return nil, errors.Wrap(err, "compiling avro schema")
	}
	return &AvroEncoder{codec: codec}, nil
}

func (a *AvroEncoder) Encode(m Message) ([]byte, error) {
	return a.codec.BinaryFromNative(nil, map[string]interface{}{
		"series": m.Series,
		"date":   m.Date,
		"value":  m.Value,
	})
}

// Decode reads a value written by Encode, for consumers of the topic.
func (a *AvroEncoder) Decode(b []byte) (Message, error) {
	native, _, err := a.codec.NativeFromBinary(b)
	if err != nil {
		return Message{}, errors.Wrap(err, "decoding avro")
	}
	rec, ok := native.(map[string]interface{})
	if !ok {
		return Message{}, errors.Errorf("decoded avro is a %T, not a record", native)
	}
	var m Message
	if m.Series, ok = rec["series"].(string); !ok {
		return Message{}, errors.New("avro record has no string series")
	}
	if m.Date, ok = rec["date"].(string); !ok {
		return Message{}, errors.New("avro record has no string date")
	}
	if m.Value, ok = rec["value"].(float64); !ok {
		return Message{}, errors.New("avro record has no double value")
	}
	return m, nil
}
