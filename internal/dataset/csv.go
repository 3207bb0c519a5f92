package dataset

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Delimiter used by RVTools CSV exports.
const csvDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoder attempts in order until one yields a parseable table. The order
// mirrors what field exports actually arrive in: Windows tools write
// cp1252 far more often than UTF-8.
type decoder struct {
	name string
	enc  encoding.Encoding
}

var csvDecoders = []decoder{
	{"cp1252", charmap.Windows1252},
	{"utf-8", nil},
	{"iso-8859-1", charmap.ISO8859_1},
	{"utf-8-sig", unicode.UTF8BOM},
}

// ReadCSV parses delimiter-separated content into a Dataset, attempting
// multiple text encodings. It returns an error only when no encoding
// yields a table; callers treat that as "unreadable" and skip the dataset.
func ReadCSV(name string, content []byte) (*Dataset, error) {
	decoders := csvDecoders
	if bytes.HasPrefix(content, utf8BOM) {
		// a BOM marks the content as UTF-8; cp1252 would decode the marker
		// bytes into garbage header text
		decoders = append([]decoder{{"utf-8-sig", unicode.UTF8BOM}}, decoders...)
	}
	for _, dec := range decoders {
		decoded, err := decode(dec, content)
		if err != nil {
			continue
		}
		ds, err := parseCSV(name, decoded)
		if err != nil {
			zap.S().Named("dataset").Debugf("%s: %s decode parsed badly: %v", name, dec.name, err)
			continue
		}
		return ds, nil
	}
	return nil, errors.Errorf("dataset %s: unreadable with any supported encoding", name)
}

func decode(dec decoder, content []byte) (string, error) {
	if dec.enc == nil {
		b := bytes.TrimPrefix(content, utf8BOM)
		if !utf8.Valid(b) {
			return "", errors.New("invalid utf-8")
		}
		return string(b), nil
	}
	out, err := dec.enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func parseCSV(name, content string) (*Dataset, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = csvDelimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Dataset{Name: name, Headers: []string{}, Rows: [][]string{}}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &Dataset{Name: name, Headers: headers, Rows: records[1:]}, nil
}
