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

package tutorial

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxLineSize bounds a single CSV line.
const maxLineSize = 1 << 20

// Parser turns raw tutorial CSV content into a Document. The zero value is
// not usable, get one from NewParser.
type Parser struct {
	Layout Layout
}

// NewParser returns a Parser for the given layout.
func NewParser(l Layout) *Parser {
	return &Parser{Layout: l}
}

// Parse reads content line by line. The first line is the header and is only
// used to check that every subsequent line has the same number of fields.
// Empty lines are skipped. The series type, provider and frequency are taken
// from the first data row; they're expected to be the same on every row and
// aren't checked on later rows.
//
// If any line is malformed Parse returns a *FormatError and no Document.
func (p *Parser) Parse(content []byte) (*Document, error) {
	scan := bufio.NewScanner(bytes.NewReader(content))
	scan.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scan.Scan() {
		if err := scan.Err(); err != nil {
			return nil, errors.Wrap(err, "scanning header")
		}
		return nil, formatErrorf(0, "missing header line")
	}
	header := splitLine(scan.Text())
	if err := p.Layout.checkFields(len(header)); err != nil {
		return nil, &FormatError{Line: 1, Msg: "header: " + err.Error()}
	}

	doc := NewDocument()
	if p.Layout.HasProvider() {
		doc.SetProvider("")
	}
	line, rows := 1, 0
	for scan.Scan() {
		line++
		txt := strings.TrimSuffix(scan.Text(), "\r")
		if strings.TrimSpace(txt) == "" {
			continue
		}
		row := splitLine(txt)
		if len(row) != len(header) {
			return nil, formatErrorf(line, "header/row len mismatch: %d vs %d", len(header), len(row))
		}
		if rows == 0 {
			p.takeHeaderValues(doc, row)
		}
		if err := p.addRow(doc.Index, row); err != nil {
			return nil, &FormatError{Line: line, Msg: err.Error()}
		}
		rows++
	}
	if err := scan.Err(); err != nil {
		return nil, errors.Wrapf(err, "scanning line %d", line+1)
	}
	return doc, nil
}

func splitLine(txt string) []string {
	return strings.Split(strings.TrimSuffix(txt, "\r"), ",")
}

func (p *Parser) takeHeaderValues(doc *Document, row []string) {
	doc.SeriesType = row[p.Layout.SeriesType]
	doc.Frequency = row[p.Layout.Frequency]
	if p.Layout.HasProvider() {
		doc.SetProvider(row[p.Layout.Provider])
	}
}

// addRow walks index id -> price type -> date for every triple in row,
// creating each level as it's first seen.
func (p *Parser) addRow(h Hierarchy, row []string) error {
	pts := h.PriceTypes(row[p.Layout.IndexID])
	for i := p.Layout.PriceType; i+2 < len(row); i += 3 {
		price, err := parsePrice(row[i+2])
		if err != nil {
			return err
		}
		pts.Prices(row[i])[row[i+1]] = price
	}
	return nil
}

// parsePrice accepts decimal and scientific notation. Values which can't be
// represented in the JSON document (NaN, ±Inf) are rejected.
func parsePrice(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Errorf("price '%s' is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("price '%s' is not finite", s)
	}
	return f, nil
}
