// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package kafka implements a tutorial series store which publishes each point
// to a Kafka topic instead of storing it.
package kafka

import (
	"context"
	"io/ioutil"
	"log"

	"github.com/Shopify/sarama"
	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
)

var _ tutorial.SeriesStore = &SeriesSink{}

// SeriesSink is a tutorial.SeriesStore which sends every appended point to a
// topic, keyed by series so that all points of one series land on the same
// partition in append order.
type SeriesSink struct {
	Hosts    []string
	Topic    string
	Encoding string // "json" or "avro"

	producer sarama.SyncProducer
	encoder  Encoder
}

// NewSeriesSink returns a SeriesSink with default configuration. Call Open
// before use.
func NewSeriesSink() *SeriesSink {
	return &SeriesSink{
		Hosts:    []string{"localhost:9092"},
		Topic:    "datacapture",
		Encoding: "json",
	}
}

// NewProducerConfig returns the sarama configuration the sink's producer
// needs.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V0_10_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true
	config.Producer.Partitioner = sarama.NewHashPartitioner
	return config
}

// Open connects to the brokers in Hosts.
func (s *SeriesSink) Open() error {
	sarama.Logger = log.New(ioutil.Discard, "", 0)
	producer, err := sarama.NewSyncProducer(s.Hosts, NewProducerConfig())
	if err != nil {
		return errors.Wrap(err, "getting new producer")
	}
	return s.OpenWith(producer)
}

// OpenWith uses producer rather than connecting to Hosts.
func (s *SeriesSink) OpenWith(producer sarama.SyncProducer) error {
	enc, err := NewEncoder(s.Encoding)
	if err != nil {
		return err
	}
	s.encoder = enc
	s.producer = producer
	return nil
}

// AppendPoint implements tutorial.SeriesStore.
func (s *SeriesSink) AppendPoint(ctx context.Context, series, date string, value float64) error {
	if s.producer == nil {
		return errors.New("series sink is not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := s.encoder.Encode(Message{Series: series, Date: date, Value: value})
	if err != nil {
		return errors.Wrap(err, "encoding point")
	}
	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.Topic,
		Key:   sarama.StringEncoder(series),
		Value: sarama.ByteEncoder(val),
	})
	return errors.Wrapf(err, "sending point to %s", s.Topic)
}

// Close closes the producer.
func (s *SeriesSink) Close() error {
	if s.producer == nil {
		return nil
	}
	return errors.Wrap(s.producer.Close(), "closing kafka producer")
}
