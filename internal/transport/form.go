package transport

import (
	"net/url"
	"strconv"
	"strings"
)

// EndFlag terminates every form the device accepts.
const EndFlag = "EndFlag"

// Field is one form field.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Form is an ordered set of form fields.
type Form struct {
	Fields []Field `json:"fields"`
}

// Set appends or replaces a string field.
func (f *Form) Set(key, value string) {
	for i := range f.Fields {
		if f.Fields[i].Key == key {
			f.Fields[i].Value = value
			return
		}
	}
	f.Fields = append(f.Fields, Field{Key: key, Value: value})
}

// SetInt appends or replaces a numeric field.
func (f *Form) SetInt(key string, value int) {
	f.Set(key, strconv.Itoa(value))
}

// Get returns a field value.
func (f Form) Get(key string) (string, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Keys returns the field keys in order.
func (f Form) Keys() []string {
	keys := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		keys[i] = field.Key
	}
	return keys
}

// Encode renders the form URL-encoded, in order, with the end flag last.
func (f Form) Encode() string {
	var b strings.Builder
	for _, field := range f.Fields {
		if field.Key == EndFlag {
			continue
		}
		b.WriteString(url.QueryEscape(field.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.Value))
		b.WriteByte('&')
	}
	b.WriteString(EndFlag)
	b.WriteString("=1")
	return b.String()
}
